package squish

import "github.com/go-gl/mathgl/mgl32"

// Pixels is a 4x4 tile in row-major order, one RGBA quadruple per pixel.
type Pixels [16][4]uint8

// fullMask enables all 16 pixels of a tile.
const fullMask = 0xffff

type pixel [4]uint8

func (p pixel) R() uint8 {
	return p[0]
}

func (p pixel) G() uint8 {
	return p[1]
}

func (p pixel) B() uint8 {
	return p[2]
}

func (p pixel) A() uint8 {
	return p[3]
}

func (p pixel) sameColour(p2 pixel) bool {
	return p.R() == p2.R() && p.G() == p2.G() && p.B() == p2.B()
}

// vec maps the colour channels onto the unit cube.
func (p pixel) vec() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.R()) / 255, float32(p.G()) / 255, float32(p.B()) / 255}
}

// copyRGBA reads one pixel from src, swapping red and blue when the buffer is BGRA.
// The swap is its own inverse so the same helper serves ingress and egress.
func copyRGBA(src []byte, bgra bool) pixel {
	if bgra {
		return pixel{src[2], src[1], src[0], src[3]}
	}
	return pixel{src[0], src[1], src[2], src[3]}
}

func writeRGBA(dst []byte, p pixel, bgra bool) {
	q := copyRGBA(p[:], bgra)
	copy(dst[:4], q[:])
}

func maskEnabled(mask, i int) bool {
	return mask&(1<<uint(i)) != 0
}
