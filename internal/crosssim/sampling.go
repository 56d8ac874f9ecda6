package crosssim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// drawColumnSizes partitions n observations over c equally likely columns.
// The multinomial is drawn as a chain of conditional binomials, so the
// result always sums to exactly n.
func drawColumnSizes(rng *rand.Rand, n, c int) []int {
	sizes := make([]int, c)
	remaining := n
	for j := 0; j < c-1 && remaining > 0; j++ {
		b := distuv.Binomial{
			N:   float64(remaining),
			P:   1 / float64(c-j),
			Src: rng,
		}
		k := int(b.Rand())
		sizes[j] = k
		remaining -= k
	}
	sizes[c-1] += remaining
	return sizes
}

// drawNormals fills dst with N(0, sd) draws.
func drawNormals(rng *rand.Rand, sd float64, dst []float64) {
	dist := distuv.Normal{Mu: 0, Sigma: sd, Src: rng}
	for i := range dst {
		dst[i] = dist.Rand()
	}
}

// sampleDistinct appends k distinct values drawn uniformly from
// [0, population) to dst, in draw order. It runs a partial Fisher-Yates
// shuffle and touches O(k) memory: a dense scratch slice when k covers at
// least half the population, a sparse swap map otherwise.
func sampleDistinct(rng *rand.Rand, population, k int, dst []int) []int {
	if k <= 0 {
		return dst
	}
	if 2*k >= population {
		perm := make([]int, population)
		for i := range perm {
			perm[i] = i
		}
		for i := 0; i < k; i++ {
			j := i + rng.IntN(population-i)
			perm[i], perm[j] = perm[j], perm[i]
			dst = append(dst, perm[i])
		}
		return dst
	}

	swapped := make(map[int]int, k)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(population-i)
		vj, ok := swapped[j]
		if !ok {
			vj = j
		}
		vi, ok := swapped[i]
		if !ok {
			vi = i
		}
		// Position i is never drawn again, only j needs the displaced value.
		swapped[j] = vi
		dst = append(dst, vj)
	}
	return dst
}
