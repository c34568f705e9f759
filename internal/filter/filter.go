// Package filter turns a query into a scoring function for candidate lines.
//
// Every policy follows the same contract: an empty query scores every line as
// a full match, and a line that does not match scores zero. Substring and
// regular expression policies only ever return 0 or Match; the fuzzy policy
// returns Match plus the fzf score so better matches rank first.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
	"golang.org/x/text/cases"
)

// Match is the score of a line that satisfies a substring or regex query.
const Match = 1.0

// ErrInvalidPattern wraps regular expression compile failures.
var ErrInvalidPattern = errors.New("invalid pattern")

// Scorer maps a candidate line to a relevance score. Scorers keep scratch
// buffers and are not safe for concurrent use.
type Scorer func(line string) float64

// New builds the scorer for query under mode.
func New(mode Mode, query string) (Scorer, error) {
	if query == "" {
		return matchAll, nil
	}
	switch mode {
	case CaseSensitive:
		return caseSensitive(query), nil
	case SmartCase:
		return smartCase(query), nil
	case Regex:
		return regex(query)
	case Fuzzy:
		return fuzzy(query), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
}

func matchAll(string) float64 {
	return Match
}

// Words splits query on single spaces, dropping the empty words produced by
// consecutive spaces.
func Words(query string) []string {
	parts := strings.Split(query, " ")
	words := parts[:0]
	for _, part := range parts {
		if part != "" {
			words = append(words, part)
		}
	}
	return words
}

func caseSensitive(query string) Scorer {
	words := Words(query)
	return func(line string) float64 {
		for _, word := range words {
			if !strings.Contains(line, word) {
				return 0
			}
		}
		return Match
	}
}

func smartCase(query string) Scorer {
	folder := cases.Fold()
	words := Words(query)
	for i, word := range words {
		words[i] = folder.String(word)
	}
	return func(line string) float64 {
		folded := folder.String(line)
		for _, word := range words {
			if !strings.Contains(folded, word) {
				return 0
			}
		}
		return Match
	}
}

func regex(query string) (Scorer, error) {
	re, err := regexp.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return func(line string) float64 {
		if re.MatchString(line) {
			return Match
		}
		return 0
	}, nil
}

const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

var initFuzzy sync.Once

func fuzzy(query string) Scorer {
	initFuzzy.Do(func() {
		algo.Init("default")
	})
	pattern := []rune(query)
	for i, r := range pattern {
		pattern[i] = unicode.ToLower(r)
	}
	pattern = algo.NormalizeRunes(pattern)
	slab := util.MakeSlab(slab16Size, slab32Size)
	return func(line string) float64 {
		chars := util.ToChars([]byte(line))
		result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
		if result.Start < 0 {
			return 0
		}
		if result.Score < 0 {
			return Match
		}
		return Match + float64(result.Score)
	}
}
