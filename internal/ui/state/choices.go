package state

import (
	"context"
	"slices"

	"github.com/atomicstack/coco/internal/filter"
)

// DefaultThreshold is the score a line must exceed to be shown.
const DefaultThreshold = 0.01

// cancelCheckInterval bounds how many lines are scored between context checks.
const cancelCheckInterval = 1024

// Choice is the ranking record of one candidate line.
type Choice struct {
	Index    int
	Score    float64
	Selected bool
}

// Ranking is the outcome of one scoring pass: the reordered choices and the
// length of the matching prefix.
type Ranking struct {
	Choices  []Choice
	Filtered int
}

// Choices owns the candidate lines and their ranking.
type Choices struct {
	lines     []string
	items     []Choice
	filtered  int
	threshold float64
}

// NewChoices ranks lines in input order with nothing filtered out yet.
func NewChoices(lines []string, threshold float64) *Choices {
	items := make([]Choice, len(lines))
	for i := range items {
		items[i] = Choice{Index: i}
	}
	return &Choices{lines: lines, items: items, threshold: threshold}
}

// Lines exposes the candidate set. Callers must not modify it.
func (c *Choices) Lines() []string { return c.lines }

// Len reports the number of candidates.
func (c *Choices) Len() int { return len(c.items) }

// FilteredLen reports how many leading choices match the current query.
func (c *Choices) FilteredLen() int { return c.filtered }

// Threshold reports the minimum score.
func (c *Choices) Threshold() float64 { return c.threshold }

// At returns the choice ranked at pos.
func (c *Choices) At(pos int) Choice { return c.items[pos] }

// Line returns the text of the choice ranked at pos.
func (c *Choices) Line(pos int) string { return c.lines[c.items[pos].Index] }

// Snapshot copies the current ranking.
func (c *Choices) Snapshot() Ranking {
	return Ranking{Choices: slices.Clone(c.items), Filtered: c.filtered}
}

// Apply rescores every choice for query under mode. On error, including a
// malformed pattern, the previous ranking is left untouched.
func (c *Choices) Apply(mode filter.Mode, query string) error {
	ranking, err := Rank(context.Background(), c.lines, c.items, mode, query, c.threshold)
	if err != nil {
		return err
	}
	c.items = ranking.Choices
	c.filtered = ranking.Filtered
	return nil
}

// Replace installs a ranking computed elsewhere. Selection flags are taken
// from the current state by line identity, and only survive inside the
// filtered prefix.
func (c *Choices) Replace(r Ranking) {
	selected := make(map[int]struct{})
	for _, item := range c.items {
		if item.Selected {
			selected[item.Index] = struct{}{}
		}
	}
	items := slices.Clone(r.Choices)
	for pos := range items {
		_, ok := selected[items[pos].Index]
		items[pos].Selected = ok && pos < r.Filtered
	}
	c.items = items
	c.filtered = r.Filtered
}

// Rank scores prev against query and returns a fresh ranking sorted by score,
// descending, with ties kept in input order. prev is not modified. A cancelled
// ctx aborts the pass with ctx.Err().
func Rank(ctx context.Context, lines []string, prev []Choice, mode filter.Mode, query string, threshold float64) (Ranking, error) {
	score, err := filter.New(mode, query)
	if err != nil {
		return Ranking{}, err
	}
	items := slices.Clone(prev)
	for i := range items {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Ranking{}, err
			}
		}
		items[i].Score = score(lines[items[i].Index])
	}
	slices.SortStableFunc(items, func(a, b Choice) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return a.Index - b.Index
	})
	filtered := len(items)
	for i, item := range items {
		if item.Score <= threshold {
			filtered = i
			break
		}
	}
	for i := filtered; i < len(items); i++ {
		items[i].Selected = false
	}
	return Ranking{Choices: items, Filtered: filtered}, nil
}
