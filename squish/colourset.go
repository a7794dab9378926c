package squish

import "github.com/go-gl/mathgl/mgl32"

// dxt1AlphaThreshold is the alpha below which a DXT1 pixel is encoded as punch-through transparent.
const dxt1AlphaThreshold = 128

// colourSet is the deduplicated, weighted set of colour points of one tile.
type colourSet struct {
	count       int
	points      [16]mgl32.Vec3
	weights     [16]float32
	counts      [16]int
	remap       [16]int // point index per pixel, -1 for pixels outside the set
	transparent bool
}

func newColourSet(rgba *Pixels, mask int, o Options) *colourSet {
	s := &colourSet{}
	dxt1 := o.isDXT1()

	for i := 0; i < 16; i++ {
		s.remap[i] = -1
		if !maskEnabled(mask, i) {
			continue
		}
		p := pixel(rgba[i])
		if dxt1 && p.A() < dxt1AlphaThreshold {
			s.transparent = true
			continue
		}

		w := float32(1)
		if o.WeightColourByAlpha {
			// never zero, even for fully transparent pixels
			w = float32(int(p.A())+1) / 256
		}

		index := s.find(rgba, i)
		if index < 0 {
			index = s.count
			s.points[index] = p.vec()
			s.count++
		}
		s.weights[index] += w
		s.counts[index]++
		s.remap[i] = index
	}
	return s
}

// find returns the point an earlier pixel with the same colour was mapped to, or -1.
func (s *colourSet) find(rgba *Pixels, i int) int {
	p := pixel(rgba[i])
	for j := 0; j < i; j++ {
		if s.remap[j] >= 0 && p.sameColour(pixel(rgba[j])) {
			return s.remap[j]
		}
	}
	return -1
}

func (s *colourSet) Points() []mgl32.Vec3 {
	return s.points[:s.count]
}

func (s *colourSet) Weights() []float32 {
	return s.weights[:s.count]
}

// remapIndices expands per-point indices to per-pixel indices.
// Pixels outside the set get index 3, the transparent entry of a 3-colour block.
func (s *colourSet) remapIndices(source *[16]uint8) (target [16]uint8) {
	for i, j := range s.remap {
		if j < 0 {
			target[i] = 3
			continue
		}
		target[i] = source[j]
	}
	return target
}
