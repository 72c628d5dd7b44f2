package zones

import (
	"fmt"
	"math"
	"math/rand"
)

// fitKMeans runs Lloyd's algorithm with k-means++ seeding. The search is
// restarted `restarts` times from the seeded generator and the run with
// the lowest inertia wins, so a fixed seed gives reproducible zones.
func fitKMeans(rows [][]float64, k, maxIter, restarts int, seed int64) (centroids [][]float64, labels []int, inertia float64, err error) {
	if k <= 0 {
		return nil, nil, 0, fmt.Errorf("zone count must be positive, got %d", k)
	}
	if len(rows) < k {
		return nil, nil, 0, fmt.Errorf("need at least %d locations to form %d zones, got %d", k, k, len(rows))
	}
	if restarts < 1 {
		restarts = 1
	}

	rng := rand.New(rand.NewSource(seed))
	inertia = math.Inf(1)

	for run := 0; run < restarts; run++ {
		c, l, in := lloyd(rows, k, maxIter, rng)
		if in < inertia {
			centroids, labels, inertia = c, l, in
		}
	}
	return centroids, labels, inertia, nil
}

func lloyd(rows [][]float64, k, maxIter int, rng *rand.Rand) ([][]float64, []int, float64) {
	centroids := seedPlusPlus(rows, k, rng)
	labels := make([]int, len(rows))

	for iter := 0; iter < maxIter; iter++ {
		moved := false
		for i, row := range rows {
			best, _ := nearestCentroid(centroids, row)
			if best != labels[i] {
				labels[i] = best
				moved = true
			}
		}
		if iter > 0 && !moved {
			break
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, len(rows[0]))
		}
		for i, row := range rows {
			c := labels[i]
			counts[c]++
			for j, x := range row {
				next[c][j] += x
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// Reseed an emptied cluster on a random point.
				copy(next[c], rows[rng.Intn(len(rows))])
				continue
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
		}
		centroids = next
	}

	total := 0.0
	for i, row := range rows {
		labels[i], _ = nearestCentroid(centroids, row)
		total += sqDistance(centroids[labels[i]], row)
	}
	return centroids, labels, total
}

// seedPlusPlus picks initial centroids with probability proportional to
// squared distance from the nearest already-chosen centroid.
func seedPlusPlus(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := make([]float64, len(rows[0]))
	copy(first, rows[rng.Intn(len(rows))])
	centroids = append(centroids, first)

	dists := make([]float64, len(rows))
	for len(centroids) < k {
		total := 0.0
		for i, row := range rows {
			_, d := nearestCentroid(centroids, row)
			dists[i] = d
			total += d
		}

		pick := 0
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dists {
				acc += d
				if acc >= target {
					pick = i
					break
				}
			}
		} else {
			pick = rng.Intn(len(rows))
		}

		c := make([]float64, len(rows[pick]))
		copy(c, rows[pick])
		centroids = append(centroids, c)
	}
	return centroids
}

func nearestCentroid(centroids [][]float64, row []float64) (int, float64) {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDistance(centroid, row); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, bestDist
}

func sqDistance(a, b []float64) float64 {
	total := 0.0
	for j := range a {
		d := a[j] - b[j]
		total += d * d
	}
	return total
}
