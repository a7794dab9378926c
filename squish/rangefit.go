package squish

import "github.com/go-gl/mathgl/mgl32"

// rangeFit takes the extreme points along the principal axis as endpoints and assigns
// every point to its nearest palette entry.
type rangeFit struct {
	set        *colourSet
	metric     mgl32.Vec3
	start, end rgb565
}

func newRangeFit(set *colourSet, metric mgl32.Vec3) *rangeFit {
	axis := principalComponent(weightedCovariance(set.Points(), set.Weights()))
	return newRangeFitAlong(set, metric, axis)
}

func newRangeFitAlong(set *colourSet, metric, axis mgl32.Vec3) *rangeFit {
	f := &rangeFit{set: set, metric: metric}
	points := set.Points()

	var start, end mgl32.Vec3
	if len(points) > 0 {
		start, end = points[0], points[0]
		min := points[0].Dot(axis)
		max := min
		for _, p := range points[1:] {
			v := p.Dot(axis)
			if v < min {
				start, min = p, v
			} else if v > max {
				end, max = p, v
			}
		}
	}
	f.start = floatTo565(snapToGrid(start))
	f.end = floatTo565(snapToGrid(end))
	return f
}

func (f *rangeFit) compress3() colourEncoding {
	return f.encode(true, 3)
}

func (f *rangeFit) compress4() colourEncoding {
	return f.encode(false, 4)
}

func (f *rangeFit) encode(threeColour bool, n int) colourEncoding {
	palette := makeColourPalette(f.start, f.end, threeColour)
	enc := colourEncoding{
		start:       f.start,
		end:         f.end,
		indices:     nearestIndices(f.set, f.metric, &palette, n),
		threeColour: threeColour,
	}
	enc.measure(f.set, f.metric)
	return enc
}
