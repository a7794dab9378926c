package squish

import (
	"github.com/go-gl/mathgl/mgl32"
	"math"
)

// sourceBlock is the best endpoint pair for one target channel value at one palette position.
type sourceBlock struct {
	start, end uint8
	err        uint8
}

// singleColourLookup maps an 8-bit channel value to the endpoint pair that reproduces it
// best, at palette index 0 (the endpoint itself) and at index 2 (the first interpolant).
type singleColourLookup [256][2]sourceBlock

var (
	lookup53 = buildSingleColourLookup(5, true)
	lookup63 = buildSingleColourLookup(6, true)
	lookup54 = buildSingleColourLookup(5, false)
	lookup64 = buildSingleColourLookup(6, false)
)

// buildSingleColourLookup searches every quantized endpoint pair with the decoder's integer
// interpolation, so the table errors are exact.
func buildSingleColourLookup(bits int, threeColour bool) *singleColourLookup {
	size := 1 << uint(bits)
	expand := expand5
	if bits == 6 {
		expand = expand6
	}

	var lut singleColourLookup
	for target := 0; target < 256; target++ {
		best := math.MaxInt32
		for c := 0; c < size; c++ {
			if e := absInt(int(expand(c)) - target); e < best {
				best = e
				lut[target][0] = sourceBlock{start: uint8(c), end: uint8(c), err: uint8(e)}
			}
		}

		best = math.MaxInt32
		for c0 := 0; c0 < size; c0++ {
			a := int(expand(c0))
			for c1 := 0; c1 < size; c1++ {
				b := int(expand(c1))
				v := (2*a + b) / 3
				if threeColour {
					v = (a + b) / 2
				}
				if e := absInt(v - target); e < best {
					best = e
					lut[target][1] = sourceBlock{start: uint8(c0), end: uint8(c1), err: uint8(e)}
				}
			}
		}
	}
	return &lut
}

func absInt(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// singleColourFit encodes a set with exactly one distinct colour straight from the lookup tables.
type singleColourFit struct {
	set    *colourSet
	metric mgl32.Vec3
	colour [3]int
}

func newSingleColourFit(set *colourSet, metric mgl32.Vec3) *singleColourFit {
	f := &singleColourFit{set: set, metric: metric}
	for i, c := range set.points[0] {
		f.colour[i] = floatToInt(255*c, 255)
	}
	return f
}

func (f *singleColourFit) compress3() colourEncoding {
	return f.fit([3]*singleColourLookup{lookup53, lookup63, lookup53}, true)
}

func (f *singleColourFit) compress4() colourEncoding {
	return f.fit([3]*singleColourLookup{lookup54, lookup64, lookup54}, false)
}

func (f *singleColourFit) fit(lookups [3]*singleColourLookup, threeColour bool) colourEncoding {
	best := colourEncoding{err: math.MaxFloat32}
	for index := 0; index < 2; index++ {
		var start, end [3]int
		for ch, lut := range lookups {
			src := lut[f.colour[ch]][index]
			start[ch] = int(src.start)
			end[ch] = int(src.end)
		}
		enc := colourEncoding{
			start:       pack565(start[0], start[1], start[2]),
			end:         pack565(end[0], end[1], end[2]),
			threeColour: threeColour,
		}
		enc.indices[0] = uint8(2 * index)
		enc.measure(f.set, f.metric)
		if enc.err < best.err {
			best = enc
		}
	}
	return best
}
