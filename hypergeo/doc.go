// Package hypergeo models the hypergeometric distribution used to score
// vessel over-representation.
//
// 🚀 What is it?
//
//	Draw n items without replacement from a population of N items of which K
//	are "successes". The number of successes k in the sample follows
//	Hypergeometric(N, K, n) with support [max(0, n-(N-K)), min(n, K)].
//
// ✨ API:
//   - Mean() = n·K/N, Variance()
//   - PMF(k) = C(K,k)·C(N-K,n-k)/C(N,n), LogPMF(k)
//   - CDFLE(k) = P(X ≤ k), CDFGE(k) = P(X ≥ k) (inclusive upper tail)
//
// Numerics:
//
//	Binomial coefficients are evaluated in log space from an accumulated
//	log-factorial table (log k! = Σ log i), built once per Distribution, so
//	populations in the tens of thousands neither overflow nor lose the tails.
//	Each tail is summed from its own end: CDFGE never computes 1 − CDFLE, which
//	keeps very small p-values (1e-30 and below) representable.
//
// Domain boundary:
//
//	Queries with k outside the support do not fail: PMF is 0, CDFLE is 0 below
//	and 1 above the support, CDFGE is 1 below and 0 above. Only the
//	distribution parameters themselves are validated (ErrInvalidParameters).
//
// Example:
//
//	d, _ := hypergeo.New(200, 20, 16)
//	d.Mean()       // 1.6
//	d.CDFGE(10)    // P(X ≥ 10)
package hypergeo
