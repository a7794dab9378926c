package squish

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand"
	"testing"
)

func binomial(n, k int) int {
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}

func TestPartitionIterEnumeratesAllBounds(t *testing.T) {
	for _, clusters := range []int{3, 4} {
		for count := 0; count <= 16; count++ {
			it := newPartitionIter(count, clusters)
			n := 0
			var prev []int
			for it.next() {
				bounds := it.Bounds()
				require.Len(t, bounds, clusters-1)
				for i := 1; i < len(bounds); i++ {
					require.LessOrEqual(t, bounds[i-1], bounds[i])
				}
				require.LessOrEqual(t, bounds[len(bounds)-1], count)
				if prev != nil {
					assert.True(t, lexLess(prev, bounds), "bounds %v do not follow %v", bounds, prev)
				}
				prev = append(prev[:0], bounds...)
				n++
			}
			assert.Equalf(t, binomial(count+clusters-1, clusters-1), n, "%d points in %d clusters", count, clusters)
		}
	}
}

func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestClusterOf(t *testing.T) {
	bounds := []int{2, 2, 5}
	want := []int{0, 0, 2, 2, 2, 3, 3}
	for pos, c := range want {
		assert.Equal(t, c, clusterOf(bounds, pos), "position %d", pos)
	}
}

func weightedPart(w float32, p mgl32.Vec3) mgl32.Vec4 {
	return mgl32.Vec4{p.X() * w, p.Y() * w, p.Z() * w, w}
}

func TestLSQSolveRecoversEndpoints(t *testing.T) {
	start := mgl32.Vec3{0.8, 0.2, 0.4}
	end := mgl32.Vec3{0.1, 0.9, 0.3}
	var parts []mgl32.Vec4
	for _, alpha := range ramp4.alpha {
		p := start.Mul(alpha).Add(end.Mul(1 - alpha))
		parts = append(parts, weightedPart(2, p))
	}
	var total mgl32.Vec4
	for _, p := range parts {
		total = total.Add(p)
	}

	terms := newLSQTerms(parts, ramp4.alpha)
	a, b := terms.solve(total)
	assert.True(t, a.ApproxEqualThreshold(start, 1e-4), "start %v", a)
	assert.True(t, b.ApproxEqualThreshold(end, 1e-4), "end %v", b)
}

func TestLSQSolveSingularPartition(t *testing.T) {
	p := mgl32.Vec3{0.25, 0.5, 0.75}
	// every point on the first interpolant
	parts := []mgl32.Vec4{{}, weightedPart(3, p), {}, {}}
	terms := newLSQTerms(parts, ramp4.alpha)
	a, b := terms.solve(parts[1])
	assert.True(t, a.ApproxEqualThreshold(p, 1e-6))
	assert.True(t, b.ApproxEqualThreshold(p, 1e-6))

	// every point on one endpoint leaves the other endpoint unconstrained
	parts = []mgl32.Vec4{{}, {}, {}, weightedPart(5, p)}
	terms = newLSQTerms(parts, ramp4.alpha)
	a, b = terms.solve(parts[3])
	assert.True(t, b.ApproxEqualThreshold(p, 1e-6))
	assert.False(t, isNaN(a) || isNaN(b))
}

func isNaN(v mgl32.Vec3) bool {
	for _, c := range v {
		if c != c {
			return true
		}
	}
	return false
}

func randomTile(rng *rand.Rand, distinct int) Pixels {
	palette := make([][4]uint8, distinct)
	for i := range palette {
		palette[i] = [4]uint8{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255}
	}
	var tile Pixels
	for i := range tile {
		tile[i] = palette[rng.Intn(distinct)]
	}
	return tile
}

func TestClusterFitNotWorseThanRangeFit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	metrics := []*Metric{nil, &PerceptualMetric}
	for n := 0; n < 300; n++ {
		tile := randomTile(rng, 2+rng.Intn(15))
		for _, flags := range []Flags{DXT1, DXT5, DXT1 | ColourIterativeClusterFit} {
			o := flags.Options()
			set := newColourSet(&tile, fullMask, o)
			if set.count < 2 {
				continue
			}
			for _, m := range metrics {
				metric := normalizeMetric(m)
				cluster := fitColours(newClusterFit(set, metric, o.Fit == FitIterativeCluster), set, o)
				ranged := fitColours(newRangeFit(set, metric), set, o)
				require.LessOrEqualf(t, cluster.err, ranged.err, "tile %d, flags %v", n, flags)
			}
		}
	}
}

func TestClusterFitReproducesPaletteColours(t *testing.T) {
	palette := makeColourPalette(pack565(28, 10, 3), pack565(2, 50, 29), false)
	var tile Pixels
	for i := range tile {
		tile[i] = palette[i%4]
	}
	for _, flags := range []Flags{DXT1, DXT5, DXT1 | ColourIterativeClusterFit} {
		decoded := Decompress(Compress(tile, flags, nil), flags)
		for i := range tile {
			for ch := 0; ch < 3; ch++ {
				assert.InDeltaf(t, tile[i][ch], decoded[i][ch], 1, "pixel %d channel %d", i, ch)
			}
		}
	}
}

func TestClusterFitTwoColours(t *testing.T) {
	tile := checkerTile([4]uint8{255, 0, 0, 255}, [4]uint8{0, 0, 255, 255})
	set := newColourSet(&tile, fullMask, DXT1.Options())
	enc := fitColours(newClusterFit(set, normalizeMetric(nil), true), set, DXT1.Options())
	assert.Zero(t, enc.err)

	decoded := Decompress(Compress(tile, DXT1|ColourIterativeClusterFit, nil), DXT1)
	assert.Equal(t, tile, decoded)
}
