package chunker

import (
	"sort"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

// Stats is a size-distribution summary of one document's chunk population,
// written into processing reports and served by the stats endpoint.
type Stats struct {
	Count    int     `json:"count"`
	Level1   int     `json:"level1"`
	Level2   int     `json:"level2"`
	Oversize int     `json:"oversize"`
	MinLen   int     `json:"min_len"`
	MaxLen   int     `json:"max_len"`
	AvgLen   float64 `json:"avg_len"`
	P50Len   float64 `json:"p50_len"`
	P95Len   float64 `json:"p95_len"`
	P99Len   float64 `json:"p99_len"`
}

// Collect computes chunk-length statistics.
func Collect(chunks []normdoc.Chunk) Stats {
	if len(chunks) == 0 {
		return Stats{}
	}

	values := make([]int, 0, len(chunks))
	var s Stats
	sum := 0
	for _, c := range chunks {
		n := chunkLen(c.Text)
		values = append(values, n)
		sum += n
		switch c.Level {
		case normdoc.LevelContext:
			s.Level1++
		case normdoc.LevelPrecision:
			s.Level2++
		}
		if c.Oversize {
			s.Oversize++
		}
	}
	sort.Ints(values)

	s.Count = len(values)
	s.MinLen = values[0]
	s.MaxLen = values[len(values)-1]
	s.AvgLen = float64(sum) / float64(len(values))
	s.P50Len = percentile(values, 50)
	s.P95Len = percentile(values, 95)
	s.P99Len = percentile(values, 99)
	return s
}

func percentile(sortedValues []int, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
