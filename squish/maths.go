package squish

import (
	"github.com/go-gl/mathgl/mgl32"
	"math"
)

// Metric weights the squared error of the red, green and blue channels.
type Metric [3]float32

// DefaultMetric weights all channels equally. It is what a nil metric means.
var DefaultMetric = Metric{1, 1, 1}

// PerceptualMetric is the luminance weighting suggested by libsquish.
var PerceptualMetric = Metric{0.2126, 0.7152, 0.0722}

// normalizeMetric scales m so its components sum to 3. Nil, negative or all-zero metrics
// fall back to equal weighting.
func normalizeMetric(m *Metric) mgl32.Vec3 {
	if m == nil {
		return mgl32.Vec3(DefaultMetric)
	}
	v := mgl32.Vec3(*m)
	for i := range v {
		if v[i] < 0 || math.IsNaN(float64(v[i])) {
			v[i] = 0
		}
	}
	sum := v[0] + v[1] + v[2]
	if sum <= 0 || math.IsInf(float64(sum), 0) {
		return mgl32.Vec3(DefaultMetric)
	}
	return v.Mul(3 / sum)
}

// powerIterations bounds the principal axis search; the matrix is only 3x3.
const powerIterations = 8

var (
	grid    = mgl32.Vec3{31, 63, 31}
	gridRcp = mgl32.Vec3{1.0 / 31, 1.0 / 63, 1.0 / 31}
)

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func clampUnit(v mgl32.Vec3) mgl32.Vec3 {
	for i := range v {
		v[i] = mgl32.Clamp(v[i], 0, 1)
	}
	return v
}

// snapToGrid rounds a unit-cube colour to the nearest 5:6:5 lattice point.
func snapToGrid(v mgl32.Vec3) mgl32.Vec3 {
	v = clampUnit(v)
	for i := range v {
		v[i] = float32(int(grid[i]*v[i]+0.5)) * gridRcp[i]
	}
	return v
}

func floatToInt(a float32, limit int) int {
	i := int(a + 0.5)
	if i < 0 {
		return 0
	}
	if i > limit {
		return limit
	}
	return i
}

// floatTo565 quantizes a unit-cube colour into a packed RGB565 value.
func floatTo565(v mgl32.Vec3) rgb565 {
	r := floatToInt(31*v.X(), 31)
	g := floatToInt(63*v.Y(), 63)
	b := floatToInt(31*v.Z(), 31)
	return pack565(r, g, b)
}

// weightedCovariance returns the weighted covariance of points around their weighted centroid.
func weightedCovariance(points []mgl32.Vec3, weights []float32) mgl32.Mat3 {
	var total float32
	var centroid mgl32.Vec3
	for i, p := range points {
		total += weights[i]
		centroid = centroid.Add(p.Mul(weights[i]))
	}
	if total > mgl32.Epsilon {
		centroid = centroid.Mul(1 / total)
	}

	var xx, xy, xz, yy, yz, zz float32
	for i, p := range points {
		a := p.Sub(centroid)
		b := a.Mul(weights[i])
		xx += a.X() * b.X()
		xy += a.X() * b.Y()
		xz += a.X() * b.Z()
		yy += a.Y() * b.Y()
		yz += a.Y() * b.Z()
		zz += a.Z() * b.Z()
	}
	return mgl32.Mat3{
		xx, xy, xz,
		xy, yy, yz,
		xz, yz, zz,
	}
}

// principalComponent approximates the dominant eigenvector of a symmetric matrix by power iteration.
// A zero matrix yields the grey axis.
func principalComponent(m mgl32.Mat3) mgl32.Vec3 {
	v := mgl32.Vec3{1, 1, 1}
	for i := 0; i < powerIterations; i++ {
		w := m.Mul3x1(v)
		scale := w[0]
		for _, c := range w[1:] {
			if abs32(c) > abs32(scale) {
				scale = c
			}
		}
		if abs32(scale) <= mgl32.Epsilon {
			break
		}
		v = w.Mul(1 / scale)
	}
	return v
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
