package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the scoring policy applied to candidate lines.
type Mode int

const (
	CaseSensitive Mode = iota
	SmartCase
	Regex
	Fuzzy
)

// ErrUnknownMode is returned by ParseMode for names that match no policy.
var ErrUnknownMode = errors.New("unknown filter mode")

var modeNames = [...]string{
	CaseSensitive: "CaseSensitive",
	SmartCase:     "SmartCase",
	Regex:         "Regex",
	Fuzzy:         "Fuzzy",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m names a known policy.
func (m Mode) Valid() bool {
	return m >= 0 && int(m) < len(modeNames)
}

// Names lists every policy name in declaration order.
func Names() []string {
	names := make([]string, len(modeNames))
	copy(names, modeNames[:])
	return names
}

// DefaultModes is the rotation used when none is configured.
func DefaultModes() []Mode {
	return []Mode{CaseSensitive, SmartCase, Regex}
}

// ParseMode resolves a policy name, ignoring case and surrounding space.
func ParseMode(name string) (Mode, error) {
	trimmed := strings.TrimSpace(name)
	for i, candidate := range modeNames {
		if strings.EqualFold(candidate, trimmed) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// ParseModes resolves a comma separated list of policy names. Duplicates are
// dropped while keeping first-seen order.
func ParseModes(list string) ([]Mode, error) {
	var modes []Mode
	seen := make(map[Mode]struct{})
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		mode, err := ParseMode(part)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[mode]; ok {
			continue
		}
		seen[mode] = struct{}{}
		modes = append(modes, mode)
	}
	return modes, nil
}
