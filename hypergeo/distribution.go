package hypergeo

import (
	"errors"
	"math"

	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

// ErrInvalidParameters indicates negative arguments, successes > population
// or sample > population.
var ErrInvalidParameters = errors.New("hypergeo: invalid distribution parameters")

// Distribution is an immutable Hypergeometric(N, K, n).
type Distribution struct {
	population int // N
	successes  int // K
	sample     int // n
	lo, hi     int // support bounds

	logFact []float64 // logFact[i] = log(i!), i ∈ [0, N]
	logNorm float64   // log C(N, n)
}

// New builds Hypergeometric(population, successes, sample).
//
// Validation:
//   - all arguments must be ≥ 0;
//   - successes ≤ population and sample ≤ population.
//
// Complexity: Time O(N), Space O(N) for the log-factorial table.
func New(population, successes, sample int) (*Distribution, error) {
	if population < 0 || successes < 0 || sample < 0 ||
		successes > population || sample > population {
		return nil, sgerr.Wrap(ErrInvalidParameters, sgerr.CodeHypergeoInvalidParameters,
			"hypergeometric parameters",
			sgerr.Field("population", population),
			sgerr.Field("successes", successes),
			sgerr.Field("sample", sample),
		)
	}

	d := &Distribution{
		population: population,
		successes:  successes,
		sample:     sample,
		lo:         max(0, sample-(population-successes)),
		hi:         min(sample, successes),
		logFact:    logFactorials(population),
	}
	d.logNorm = d.logChoose(population, sample)

	return d, nil
}

// logFactorials accumulates log(i!) for i = 0..n.
func logFactorials(n int) []float64 {
	t := make([]float64, n+1)
	for i := 2; i <= n; i++ {
		t[i] = t[i-1] + math.Log(float64(i))
	}
	return t
}

// logChoose returns log C(a, b); callers guarantee 0 ≤ b ≤ a ≤ N.
func (d *Distribution) logChoose(a, b int) float64 {
	return d.logFact[a] - d.logFact[b] - d.logFact[a-b]
}

// Population returns N.
func (d *Distribution) Population() int { return d.population }

// Successes returns K.
func (d *Distribution) Successes() int { return d.successes }

// Sample returns n.
func (d *Distribution) Sample() int { return d.sample }

// Support returns the inclusive range of k with non-zero probability.
func (d *Distribution) Support() (lo, hi int) { return d.lo, d.hi }

// Mean returns n·K/N (0 for an empty population).
func (d *Distribution) Mean() float64 {
	if d.population == 0 {
		return 0
	}
	return float64(d.sample) * float64(d.successes) / float64(d.population)
}

// Variance returns n·(K/N)·((N−K)/N)·((N−n)/(N−1)); 0 when N ≤ 1.
func (d *Distribution) Variance() float64 {
	if d.population <= 1 {
		return 0
	}
	N := float64(d.population)
	K := float64(d.successes)
	n := float64(d.sample)
	return n * (K / N) * ((N - K) / N) * ((N - n) / (N - 1))
}

// LogPMF returns log P(X = k); -Inf outside the support.
func (d *Distribution) LogPMF(k int) float64 {
	if k < d.lo || k > d.hi {
		return math.Inf(-1)
	}
	return d.logChoose(d.successes, k) +
		d.logChoose(d.population-d.successes, d.sample-k) -
		d.logNorm
}

// PMF returns P(X = k); 0 outside the support.
func (d *Distribution) PMF(k int) float64 {
	if k < d.lo || k > d.hi {
		return 0
	}
	return math.Exp(d.LogPMF(k))
}

// CDFLE returns P(X ≤ k).
func (d *Distribution) CDFLE(k int) float64 {
	switch {
	case k < d.lo:
		return 0
	case k >= d.hi:
		return 1
	}
	return clamp01(d.sum(d.lo, k))
}

// CDFGE returns P(X ≥ k), the inclusive upper tail.
func (d *Distribution) CDFGE(k int) float64 {
	switch {
	case k <= d.lo:
		return 1
	case k > d.hi:
		return 0
	}
	return clamp01(d.sum(k, d.hi))
}

// sum adds PMF over [from, to], smallest terms first to limit rounding.
func (d *Distribution) sum(from, to int) float64 {
	mode := d.mode()
	var s float64
	switch {
	case to <= mode: // increasing run: small terms sit at the low end
		for k := from; k <= to; k++ {
			s += d.PMF(k)
		}
	case from >= mode: // decreasing run: small terms sit at the high end
		for k := to; k >= from; k-- {
			s += d.PMF(k)
		}
	default:
		for k := from; k < mode; k++ {
			s += d.PMF(k)
		}
		var r float64
		for k := to; k >= mode; k-- {
			r += d.PMF(k)
		}
		s += r
	}
	return s
}

// mode returns floor((n+1)(K+1)/(N+2)) clipped to the support.
func (d *Distribution) mode() int {
	m := (d.sample + 1) * (d.successes + 1) / (d.population + 2)
	return max(d.lo, min(d.hi, m))
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
