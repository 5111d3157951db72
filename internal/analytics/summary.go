package analytics

import (
	"math"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/store"
)

// Summary aggregates a footprint history. All totals are kg CO2e per month.
type Summary struct {
	Count          int                `json:"count"`
	LatestTotal    float64            `json:"latest_total"`
	AverageTotal   float64            `json:"average_total"`
	MinTotal       float64            `json:"min_total"`
	MaxTotal       float64            `json:"max_total"`
	CategoryTotals map[string]float64 `json:"category_totals"`
	CategoryShare  map[string]float64 `json:"category_share"`
}

// Summarize aggregates records, which must be ordered oldest first.
// An empty history yields a zero Summary.
func Summarize(records []store.FootprintRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	s := Summary{
		Count:          len(records),
		LatestTotal:    records[len(records)-1].Breakdown.Total,
		MinTotal:       math.Inf(1),
		MaxTotal:       math.Inf(-1),
		CategoryTotals: make(map[string]float64, len(carbon.Categories())),
		CategoryShare:  make(map[string]float64, len(carbon.Categories())),
	}

	var sum float64
	for _, r := range records {
		b := r.Breakdown
		sum += b.Total
		s.MinTotal = math.Min(s.MinTotal, b.Total)
		s.MaxTotal = math.Max(s.MaxTotal, b.Total)

		s.CategoryTotals[carbon.CategoryElectricity] += b.Electricity
		s.CategoryTotals[carbon.CategoryTransport] += b.Transport
		s.CategoryTotals[carbon.CategoryFood] += b.Food
		s.CategoryTotals[carbon.CategoryWaste] += b.Waste
	}
	s.AverageTotal = sum / float64(len(records))

	for _, c := range carbon.Categories() {
		if sum > 0 {
			s.CategoryShare[c] = s.CategoryTotals[c] / sum * 100
		} else {
			s.CategoryShare[c] = 0
		}
	}
	return s
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Rounded returns a copy of s with every figure rounded for presentation.
func (s Summary) Rounded(places int) Summary {
	out := s
	out.LatestTotal = Round(s.LatestTotal, places)
	out.AverageTotal = Round(s.AverageTotal, places)
	out.MinTotal = Round(s.MinTotal, places)
	out.MaxTotal = Round(s.MaxTotal, places)
	out.CategoryTotals = roundMap(s.CategoryTotals, places)
	out.CategoryShare = roundMap(s.CategoryShare, places)
	return out
}

func roundMap(m map[string]float64, places int) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = Round(v, places)
	}
	return out
}
