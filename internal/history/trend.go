package history

import (
	"fmt"
	"math"
	"sort"

	"github.com/HendryAvila/quill/internal/fluency"
)

// Direction of a score change between two runs.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
	DirectionNew  Direction = "new" // only one run so far
)

// Arrow returns a one-glyph marker for d.
func (d Direction) Arrow() string {
	switch d {
	case DirectionUp:
		return "↑"
	case DirectionDown:
		return "↓"
	case DirectionFlat:
		return "→"
	}
	return "•"
}

// DimensionDelta is the change of one dimension score.
type DimensionDelta struct {
	Dimension fluency.Dimension `json:"dimension"`
	Previous  float64           `json:"previous"`
	Latest    float64           `json:"latest"`
	Delta     float64           `json:"delta"`
}

// Trend compares the two newest runs of a document.
type Trend struct {
	DocumentKey string           `json:"document_key"`
	Runs        int              `json:"runs"`
	Latest      Run              `json:"latest"`
	Previous    *Run             `json:"previous,omitempty"`
	Delta       float64          `json:"delta"`
	Direction   Direction        `json:"direction"`
	Changed     []DimensionDelta `json:"changed,omitempty"`
}

// epsilon absorbs float noise below the one-decimal score resolution.
const epsilon = 0.05

func direction(delta float64) Direction {
	switch {
	case delta > epsilon:
		return DirectionUp
	case delta < -epsilon:
		return DirectionDown
	}
	return DirectionFlat
}

// Trend returns the comparison of the newest run of key with the one
// before it. It returns ErrNotFound when key has no runs.
func (s *Store) Trend(key string) (*Trend, error) {
	var runs int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE document_key = ?`, key).Scan(&runs); err != nil {
		return nil, fmt.Errorf("history: count runs: %w", err)
	}
	if runs == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNotFound, key)
	}

	recent, err := s.Recent(key, 2)
	if err != nil {
		return nil, err
	}
	return buildTrend(key, runs, recent), nil
}

func buildTrend(key string, runs int, recent []Run) *Trend {
	t := &Trend{
		DocumentKey: key,
		Runs:        runs,
		Latest:      recent[0],
		Direction:   DirectionNew,
	}
	if len(recent) < 2 {
		return t
	}

	prev := recent[1]
	t.Previous = &prev
	t.Delta = round1(t.Latest.Score - prev.Score)
	t.Direction = direction(t.Delta)

	for _, d := range fluency.Dimensions {
		before, after := prev.Dimensions[d], t.Latest.Dimensions[d]
		if delta := round1(after - before); delta != 0 {
			t.Changed = append(t.Changed, DimensionDelta{Dimension: d, Previous: before, Latest: after, Delta: delta})
		}
	}
	sort.SliceStable(t.Changed, func(i, j int) bool {
		return math.Abs(t.Changed[i].Delta) > math.Abs(t.Changed[j].Delta)
	})
	return t
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
