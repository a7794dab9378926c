package squish

import "github.com/go-gl/mathgl/mgl32"

// colourEncoding is one candidate encoding of a colour set. Indices are per point of the
// set, not per pixel; the block writer expands them.
type colourEncoding struct {
	start, end  rgb565
	indices     [16]uint8
	threeColour bool
	err         float32
}

// colourFitter produces the best encoding it can find for each palette layout.
type colourFitter interface {
	compress3() colourEncoding
	compress4() colourEncoding
}

// compressColour picks the fit for the set and packs its result.
func compressColour(set *colourSet, o Options, metric mgl32.Vec3) colourBlock {
	var fit colourFitter
	switch {
	case set.count == 1:
		fit = newSingleColourFit(set, metric)
	case o.Fit == FitRange || set.count == 0:
		fit = newRangeFit(set, metric)
	default:
		fit = newClusterFit(set, metric, o.Fit == FitIterativeCluster)
	}
	enc := fitColours(fit, set, o)
	return enc.block(set)
}

// fitColours tries the 3-colour palette first for DXT1 and replaces it with the 4-colour
// result only when that is strictly better. Transparent DXT1 sets need index 3 of the
// 3-colour palette and never try 4 colours.
func fitColours(fit colourFitter, set *colourSet, o Options) colourEncoding {
	if !o.isDXT1() {
		return fit.compress4()
	}
	best := fit.compress3()
	if !set.transparent {
		if enc := fit.compress4(); enc.err < best.err {
			best = enc
		}
	}
	return best
}

func (e *colourEncoding) block(set *colourSet) colourBlock {
	indices := set.remapIndices(&e.indices)
	if e.threeColour {
		return writeColourBlock3(e.start, e.end, indices)
	}
	return writeColourBlock4(e.start, e.end, indices)
}

// measure sets e.err to the weighted error against the palette a decoder reconstructs
// from the quantized endpoints.
func (e *colourEncoding) measure(set *colourSet, metric mgl32.Vec3) {
	palette := makeColourPalette(e.start, e.end, e.threeColour)
	var total float32
	for i, p := range set.Points() {
		total += set.weights[i] * metricDistance(metric, p, palette[e.indices[i]].vec())
	}
	e.err = total
}

func metricDistance(metric, a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return metric.Dot(mulElem(d, d))
}

// nearestIndices assigns every point to its closest palette entry, the first entry winning ties.
// Only the first n entries take part.
func nearestIndices(set *colourSet, metric mgl32.Vec3, palette *colourPalette, n int) (indices [16]uint8) {
	var codes [4]mgl32.Vec3
	for j := 0; j < n; j++ {
		codes[j] = palette[j].vec()
	}
	for i, p := range set.Points() {
		best := metricDistance(metric, p, codes[0])
		for j := 1; j < n; j++ {
			if d := metricDistance(metric, p, codes[j]); d < best {
				best = d
				indices[i] = uint8(j)
			}
		}
	}
	return indices
}
