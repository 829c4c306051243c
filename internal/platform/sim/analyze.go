package sim

import (
	"fmt"
	"math"

	"bringup-go/internal/fault"
)

// Pattern classifies an indicator trace.
type Pattern uint8

const (
	Dark Pattern = iota
	Healthy
	Faulting
	Irregular
)

func (p Pattern) String() string {
	switch p {
	case Dark:
		return "dark"
	case Healthy:
		return "healthy"
	case Faulting:
		return "fault"
	default:
		return "irregular"
	}
}

// Report summarises indicator edges against an expected period.
type Report struct {
	Edges   int
	First   uint64
	Period  uint64
	MeanGap float64
	StdDev  float64
	// MaxDrift is the largest distance of edge n from First + n*Period.
	MaxDrift uint64
	Pattern  Pattern
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %d edges, first at %d ms, mean gap %.3f ms, stddev %.3f ms, max drift %d ms",
		r.Pattern, r.Edges, r.First, r.MeanGap, r.StdDev, r.MaxDrift)
}

// Analyze measures edges against a healthy toggle period in ms.
func Analyze(edges []Edge, period uint64) Report {
	r := Report{Edges: len(edges), Period: period}
	if len(edges) == 0 {
		return r
	}
	r.First = edges[0].At
	r.Pattern = Irregular
	if len(edges) < 2 {
		return r
	}

	gaps := make([]uint64, len(edges)-1)
	var sum float64
	for i := 1; i < len(edges); i++ {
		gaps[i-1] = edges[i].At - edges[i-1].At
		sum += float64(gaps[i-1])
	}
	r.MeanGap = sum / float64(len(gaps))
	var sq float64
	for _, g := range gaps {
		d := float64(g) - r.MeanGap
		sq += d * d
	}
	r.StdDev = math.Sqrt(sq / float64(len(gaps)))

	for i, e := range edges {
		ideal := r.First + uint64(i)*period
		if d := absDiff(e.At, ideal); d > r.MaxDrift {
			r.MaxDrift = d
		}
	}

	switch {
	case matchesFault(gaps, fault.DefaultPattern):
		r.Pattern = Faulting
	case healthyGaps(gaps, period):
		r.Pattern = Healthy
	}
	return r
}

// healthyGaps accepts every gap within a twentieth of the period.
func healthyGaps(gaps []uint64, period uint64) bool {
	tol := period / 20
	for _, g := range gaps {
		if absDiff(g, period) > tol {
			return false
		}
	}
	return true
}

// matchesFault checks the burst structure: Toggles-1 short gaps, then one
// gap stretched by the pause, repeating.
func matchesFault(gaps []uint64, p fault.Pattern) bool {
	if len(gaps) < p.Toggles {
		return false
	}
	short := uint64(p.Gap)
	long := uint64(p.Gap + p.Pause)
	// Align on the first long gap.
	start := -1
	for i, g := range gaps {
		if g == long {
			start = i + 1
			break
		}
		if g != short {
			return false
		}
	}
	if start < 0 {
		return false
	}
	for i := start; i < len(gaps); i++ {
		want := short
		if (i-start)%p.Toggles == p.Toggles-1 {
			want = long
		}
		if gaps[i] != want {
			return false
		}
	}
	return true
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
