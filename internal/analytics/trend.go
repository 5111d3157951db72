package analytics

import (
	"math"
	"time"

	"github.com/rshade/carbonlens/internal/store"
)

// Point is one footprint total in time.
type Point struct {
	At    time.Time `json:"at"`
	Total float64   `json:"total"`
}

// Change is the difference between two totals.
type Change struct {
	Absolute float64 `json:"absolute"`
	// Percent is relative to the earlier total; zero when the earlier total is zero.
	Percent float64 `json:"percent"`
}

// Trend describes how a history has moved.
type Trend struct {
	Points        []Point   `json:"points"`
	SincePrevious Change    `json:"since_previous"`
	SinceFirst    Change    `json:"since_first"`
	Direction     Direction `json:"direction"`
}

// ComputeTrend builds a trend from records ordered oldest first. Histories
// with fewer than two records are stable with zero change.
func ComputeTrend(records []store.FootprintRecord) Trend {
	t := Trend{
		Points:    make([]Point, 0, len(records)),
		Direction: DirectionStable,
	}
	for _, r := range records {
		t.Points = append(t.Points, Point{At: r.CreatedAt, Total: r.Breakdown.Total})
	}
	if len(records) < 2 {
		return t
	}

	first := t.Points[0].Total
	prev := t.Points[len(t.Points)-2].Total
	latest := t.Points[len(t.Points)-1].Total

	t.SincePrevious = change(prev, latest)
	t.SinceFirst = change(first, latest)
	t.Direction = direction(prev, latest)
	return t
}

func change(from, to float64) Change {
	c := Change{Absolute: to - from}
	if from != 0 {
		c.Percent = c.Absolute / from * 100
	}
	return c
}

func direction(prev, latest float64) Direction {
	delta := latest - prev
	if prev == 0 {
		if delta == 0 {
			return DirectionStable
		}
	} else if math.Abs(delta)/math.Abs(prev)*100 < StableThresholdPercent {
		return DirectionStable
	}
	if delta > 0 {
		return DirectionIncreasing
	}
	return DirectionDecreasing
}

// Rounded returns a copy of t with every figure rounded for presentation.
func (t Trend) Rounded(places int) Trend {
	out := t
	out.Points = make([]Point, len(t.Points))
	for i, p := range t.Points {
		out.Points[i] = Point{At: p.At, Total: Round(p.Total, places)}
	}
	out.SincePrevious = Change{Absolute: Round(t.SincePrevious.Absolute, places), Percent: Round(t.SincePrevious.Percent, places)}
	out.SinceFirst = Change{Absolute: Round(t.SinceFirst.Absolute, places), Percent: Round(t.SinceFirst.Percent, places)}
	return out
}
