package squish

import (
	"github.com/go-gl/mathgl/mgl32"
	"math"
)

// maxIterations bounds the orderings the iterative cluster fit tries.
const maxIterations = 8

// clusterRamp describes a palette layout for the cluster search: the weight of the start
// endpoint for every cluster in axis order, and the palette index that cluster encodes to.
type clusterRamp struct {
	alpha       []float32
	index       []uint8
	threeColour bool
}

var (
	ramp3 = clusterRamp{alpha: []float32{1, 1.0 / 2, 0}, index: []uint8{0, 2, 1}, threeColour: true}
	ramp4 = clusterRamp{alpha: []float32{1, 2.0 / 3, 1.0 / 3, 0}, index: []uint8{0, 2, 3, 1}}
)

// partitionIter enumerates every way to cut count ordered points into contiguous clusters.
// bounds[c] is the ordered position where cluster c+1 starts; bounds never decrease, so a
// cluster may be empty. Partitions come in lexicographic order of their bounds.
type partitionIter struct {
	count   int
	n       int
	bounds  [3]int
	started bool
}

func newPartitionIter(count, clusters int) *partitionIter {
	return &partitionIter{count: count, n: clusters - 1}
}

func (it *partitionIter) next() bool {
	if !it.started {
		it.started = true
		return true
	}
	for d := it.n - 1; d >= 0; d-- {
		if it.bounds[d] < it.count {
			it.bounds[d]++
			for e := d + 1; e < it.n; e++ {
				it.bounds[e] = it.bounds[d]
			}
			return true
		}
	}
	return false
}

func (it *partitionIter) Bounds() []int {
	return it.bounds[:it.n]
}

// clusterOf returns the cluster an ordered position falls into.
func clusterOf(bounds []int, pos int) int {
	c := 0
	for c < len(bounds) && bounds[c] <= pos {
		c++
	}
	return c
}

// lsqTerms are the sums of the normal equations for fitting two endpoints to a partition.
type lsqTerms struct {
	alphaX, betaX            mgl32.Vec3
	alpha2, beta2, alphaBeta float32
}

// newLSQTerms accumulates the terms from per-cluster sums, each holding the weighted point
// sum in xyz and the total weight in w.
func newLSQTerms(parts []mgl32.Vec4, alpha []float32) lsqTerms {
	var t lsqTerms
	for c, part := range parts {
		a := alpha[c]
		b := 1 - a
		x := part.Vec3()
		w := part.W()
		t.alphaX = t.alphaX.Add(x.Mul(a))
		t.betaX = t.betaX.Add(x.Mul(b))
		t.alpha2 += a * a * w
		t.beta2 += b * b * w
		t.alphaBeta += a * b * w
	}
	return t
}

// solve returns the endpoints minimizing the weighted squared error of the partition.
// When every point sits on one palette position the system is singular; both endpoints
// then take the centroid, which reproduces that position exactly.
func (t *lsqTerms) solve(total mgl32.Vec4) (a, b mgl32.Vec3) {
	denom := t.alpha2*t.beta2 - t.alphaBeta*t.alphaBeta
	if denom <= 1e-6*t.alpha2*t.beta2 || denom <= 0 {
		var centroid mgl32.Vec3
		if total.W() > 0 {
			centroid = total.Vec3().Mul(1 / total.W())
		}
		return centroid, centroid
	}
	factor := 1 / denom
	a = t.alphaX.Mul(t.beta2).Sub(t.betaX.Mul(t.alphaBeta)).Mul(factor)
	b = t.betaX.Mul(t.alpha2).Sub(t.alphaX.Mul(t.alphaBeta)).Mul(factor)
	return a, b
}

// error is the metric-weighted squared error of endpoints a and b for the partition,
// less the constant sum of squared point values.
func (t *lsqTerms) error(a, b, metric mgl32.Vec3) float32 {
	e1 := mulElem(a, a).Mul(t.alpha2).Add(mulElem(b, b).Mul(t.beta2))
	e2 := mulElem(a, b).Mul(t.alphaBeta).Sub(mulElem(a, t.alphaX)).Sub(mulElem(b, t.betaX))
	return metric.Dot(e1.Add(e2.Mul(2)))
}

// clusterFit searches contiguous partitions of the points ordered along an axis, solving the
// least-squares endpoints of each, and keeps the partition with the least error.
type clusterFit struct {
	set        *colourSet
	metric     mgl32.Vec3
	iterations int
	principal  mgl32.Vec3
	seed       *rangeFit

	orders int
	order  [maxIterations][16]int
	prefix [17]mgl32.Vec4
}

func newClusterFit(set *colourSet, metric mgl32.Vec3, iterative bool) *clusterFit {
	f := &clusterFit{set: set, metric: metric, iterations: 1}
	if iterative {
		f.iterations = maxIterations
	}
	f.principal = principalComponent(weightedCovariance(set.Points(), set.Weights()))
	f.seed = newRangeFitAlong(set, metric, f.principal)
	return f
}

// constructOrdering sorts the points along axis and prepares the prefix sums for the next
// search round. It reports false when the ordering was already searched.
func (f *clusterFit) constructOrdering(axis mgl32.Vec3) bool {
	points := f.set.Points()
	var dps [16]float32
	order := &f.order[f.orders]
	for i, p := range points {
		dps[i] = p.Dot(axis)
		order[i] = i
	}
	// stable insertion sort, ties keep point order
	for i := range points {
		for j := i; j > 0 && dps[j] < dps[j-1]; j-- {
			dps[j], dps[j-1] = dps[j-1], dps[j]
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	for it := 0; it < f.orders; it++ {
		if f.order[it] == *order {
			return false
		}
	}

	for i, j := range order[:len(points)] {
		p := points[j]
		w := f.set.weights[j]
		f.prefix[i+1] = f.prefix[i].Add(mgl32.Vec4{p.X() * w, p.Y() * w, p.Z() * w, w})
	}
	f.orders++
	return true
}

func (f *clusterFit) compress3() colourEncoding {
	return f.compress(&ramp3)
}

func (f *clusterFit) compress4() colourEncoding {
	return f.compress(&ramp4)
}

func (f *clusterFit) compress(r *clusterRamp) colourEncoding {
	count := f.set.count
	f.orders = 0
	f.constructOrdering(f.principal)

	bestErr := float32(math.MaxFloat32)
	var bestStart, bestEnd mgl32.Vec3
	var bestBounds [3]int
	bestOrder := 0

	var parts [4]mgl32.Vec4
	for iteration := 0; ; {
		total := f.prefix[count]
		it := newPartitionIter(count, len(r.alpha))
		for it.next() {
			bounds := it.Bounds()
			from := 0
			for c := range r.alpha {
				to := count
				if c < len(bounds) {
					to = bounds[c]
				}
				parts[c] = f.prefix[to].Sub(f.prefix[from])
				from = to
			}

			terms := newLSQTerms(parts[:len(r.alpha)], r.alpha)
			a, b := terms.solve(total)
			a, b = snapToGrid(a), snapToGrid(b)
			if e := terms.error(a, b, f.metric); e < bestErr {
				bestErr = e
				bestStart, bestEnd = a, b
				bestBounds = it.bounds
				bestOrder = iteration
			}
		}

		// only keep iterating while the new ordering improved on the previous one
		if bestOrder != iteration {
			break
		}
		iteration++
		if iteration == f.iterations {
			break
		}
		if !f.constructOrdering(bestEnd.Sub(bestStart)) {
			break
		}
	}

	enc := colourEncoding{
		start:       floatTo565(bestStart),
		end:         floatTo565(bestEnd),
		threeColour: r.threeColour,
	}
	bounds := bestBounds[:len(r.alpha)-1]
	for pos, j := range f.order[bestOrder][:count] {
		enc.indices[j] = r.index[clusterOf(bounds, pos)]
	}
	enc.measure(f.set, f.metric)

	// the range fit along the same axis is a candidate too
	seed := f.seed.encode(r.threeColour, len(r.alpha))
	if seed.err < enc.err {
		return seed
	}
	return enc
}
