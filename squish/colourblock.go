package squish

import "encoding/binary"

// Colour block layout, little-endian:
//
//	bytes 0-1  endpoint 0, RGB565
//	bytes 2-3  endpoint 1, RGB565
//	bytes 4-7  16 x 2-bit palette indices, pixel 0 in the lowest bits of byte 4
//
// A DXT1 block with endpoint 0 <= endpoint 1 uses the 3-colour palette where index 3 is
// transparent black. DXT3 and DXT5 colour blocks always use the 4-colour palette.
const colourBlockSize = 8

type colourBlock [colourBlockSize]byte

// rgb565 is a colour packed as 5 bits red, 6 bits green, 5 bits blue.
type rgb565 uint16

func pack565(r, g, b int) rgb565 {
	return rgb565(r<<11 | g<<5 | b)
}

func (c rgb565) fields() (r, g, b int) {
	return int(c>>11) & 0x1f, int(c>>5) & 0x3f, int(c) & 0x1f
}

// expand replicates the high bits into the low bits, as GPUs do.
func (c rgb565) expand() pixel {
	r, g, b := c.fields()
	return pixel{expand5(r), expand6(g), expand5(b), 0xff}
}

func expand5(v int) uint8 {
	return uint8(v<<3 | v>>2)
}

func expand6(v int) uint8 {
	return uint8(v<<2 | v>>4)
}

// colourPalette is the set of colours one block can reproduce.
type colourPalette [4]pixel

// makeColourPalette builds the palette exactly as a BC1 decoder does, with integer
// interpolation of the expanded endpoints.
func makeColourPalette(a, b rgb565, threeColour bool) colourPalette {
	var p colourPalette
	p[0] = a.expand()
	p[1] = b.expand()
	for i := 0; i < 3; i++ {
		c, d := int(p[0][i]), int(p[1][i])
		if threeColour {
			p[2][i] = uint8((c + d) / 2)
			p[3][i] = 0
		} else {
			p[2][i] = uint8((2*c + d) / 3)
			p[3][i] = uint8((c + 2*d) / 3)
		}
	}
	p[2][3] = 0xff
	if threeColour {
		p[3][3] = 0
	} else {
		p[3][3] = 0xff
	}
	return p
}

func writeColourBlock(a, b rgb565, indices *[16]uint8) (blk colourBlock) {
	binary.LittleEndian.PutUint16(blk[0:], uint16(a))
	binary.LittleEndian.PutUint16(blk[2:], uint16(b))
	var codes uint32
	for i, index := range indices {
		codes |= uint32(index&3) << (2 * uint(i))
	}
	binary.LittleEndian.PutUint32(blk[4:], codes)
	return blk
}

// writeColourBlock3 stores a 3-colour encoding, ordering the endpoints so a <= b.
func writeColourBlock3(a, b rgb565, indices [16]uint8) colourBlock {
	if a > b {
		a, b = b, a
		for i, index := range indices {
			switch index {
			case 0:
				indices[i] = 1
			case 1:
				indices[i] = 0
			}
		}
	}
	return writeColourBlock(a, b, &indices)
}

// writeColourBlock4 stores a 4-colour encoding, ordering the endpoints so a > b.
// Equal endpoints cannot signal 4-colour mode, every pixel then takes endpoint 0.
func writeColourBlock4(a, b rgb565, indices [16]uint8) colourBlock {
	switch {
	case a < b:
		a, b = b, a
		for i := range indices {
			indices[i] = (indices[i] ^ 1) & 3
		}
	case a == b:
		indices = [16]uint8{}
	}
	return writeColourBlock(a, b, &indices)
}

func readColourBlock(blk []byte) (a, b rgb565, indices [16]uint8) {
	a = rgb565(binary.LittleEndian.Uint16(blk[0:]))
	b = rgb565(binary.LittleEndian.Uint16(blk[2:]))
	codes := binary.LittleEndian.Uint32(blk[4:])
	for i := range indices {
		indices[i] = uint8(codes>>(2*uint(i))) & 3
	}
	return a, b, indices
}

// decompressColour reconstructs all 16 pixels of a colour block, alpha included:
// 255 everywhere except the transparent entry of a DXT1 3-colour block.
func decompressColour(blk []byte, dxt1 bool) (rgba Pixels) {
	a, b, indices := readColourBlock(blk)
	palette := makeColourPalette(a, b, dxt1 && a <= b)
	for i, index := range indices {
		rgba[i] = palette[index]
	}
	return rgba
}
