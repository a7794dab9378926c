package squish

import (
	"encoding/binary"
	"math"
)

// Alpha block layouts, little-endian, 8 bytes each:
//
//	DXT3  16 x 4-bit alpha values, pixel 0 in the low nibble of byte 0
//	DXT5  byte 0 alpha0, byte 1 alpha1, bytes 2-7 16 x 3-bit codebook indices,
//	      pixel 0 in the lowest bits of byte 2
//
// A DXT5 block with alpha0 <= alpha1 uses 4 interpolated values plus 0 and 255, otherwise
// 6 interpolated values.
const alphaBlockSize = 8

type alphaBlock [alphaBlockSize]byte

func compressAlphaDXT3(rgba *Pixels, mask int) (blk alphaBlock) {
	var codes uint64
	for i, p := range rgba {
		if !maskEnabled(mask, i) {
			continue
		}
		q := floatToInt(float32(pixel(p).A())*(15.0/255.0), 15)
		codes |= uint64(q) << (4 * uint(i))
	}
	binary.LittleEndian.PutUint64(blk[:], codes)
	return blk
}

func decompressAlphaDXT3(rgba *Pixels, blk []byte) {
	codes := binary.LittleEndian.Uint64(blk)
	for i := range rgba {
		q := uint8(codes>>(4*uint(i))) & 0x0f
		rgba[i][3] = q | q<<4
	}
}

// alphaCodebook is the set of alpha values one DXT5 block can reproduce.
type alphaCodebook [8]uint8

// alphaCodebook5 is the ramp with 4 interpolants and the fixed values 0 and 255.
func alphaCodebook5(a0, a1 int) (codes alphaCodebook) {
	codes[0], codes[1] = uint8(a0), uint8(a1)
	for i := 1; i < 5; i++ {
		codes[1+i] = uint8(((5-i)*a0 + i*a1) / 5)
	}
	codes[6], codes[7] = 0, 255
	return codes
}

// alphaCodebook7 is the ramp with 6 interpolants.
func alphaCodebook7(a0, a1 int) (codes alphaCodebook) {
	codes[0], codes[1] = uint8(a0), uint8(a1)
	for i := 1; i < 7; i++ {
		codes[1+i] = uint8(((7-i)*a0 + i*a1) / 7)
	}
	return codes
}

func makeAlphaCodebook(a0, a1 int) alphaCodebook {
	if a0 <= a1 {
		return alphaCodebook5(a0, a1)
	}
	return alphaCodebook7(a0, a1)
}

// fixRange widens [min, max] to at least steps apart so every interpolant is distinct.
func fixRange(min, max, steps int) (int, int) {
	if max-min < steps {
		max = minInt(min+steps, 255)
	}
	if max-min < steps {
		min = maxInt(0, max-steps)
	}
	return min, max
}

// fitCodes assigns every enabled pixel to its nearest codebook entry and returns the total
// squared error. Disabled pixels take index 0.
func fitCodes(rgba *Pixels, mask int, codes *alphaCodebook) (indices [16]uint8, err int) {
	for i, p := range rgba {
		if !maskEnabled(mask, i) {
			continue
		}
		value := int(pixel(p).A())
		least := math.MaxInt32
		for j, code := range codes {
			d := value - int(code)
			if d*d < least {
				least = d * d
				indices[i] = uint8(j)
			}
		}
		err += least
	}
	return indices, err
}

func writeAlphaBlock(a0, a1 int, indices *[16]uint8) (blk alphaBlock) {
	blk[0], blk[1] = uint8(a0), uint8(a1)
	var codes uint64
	for i, index := range indices {
		codes |= uint64(index&7) << (3 * uint(i))
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], codes)
	copy(blk[2:], buf[:6])
	return blk
}

// writeAlphaBlock5 stores a 5-value ramp encoding with a0 <= a1, mirroring the indices when
// the endpoints swap.
func writeAlphaBlock5(a0, a1 int, indices [16]uint8) alphaBlock {
	if a0 > a1 {
		a0, a1 = a1, a0
		for i, index := range indices {
			switch {
			case index == 0:
				indices[i] = 1
			case index == 1:
				indices[i] = 0
			case index <= 5:
				indices[i] = 7 - index
			}
		}
	}
	return writeAlphaBlock(a0, a1, &indices)
}

// writeAlphaBlock7 stores a 7-value ramp encoding with a0 > a1.
func writeAlphaBlock7(a0, a1 int, indices [16]uint8) alphaBlock {
	if a0 < a1 {
		a0, a1 = a1, a0
		for i, index := range indices {
			switch index {
			case 0:
				indices[i] = 1
			case 1:
				indices[i] = 0
			default:
				indices[i] = 9 - index
			}
		}
	}
	return writeAlphaBlock(a0, a1, &indices)
}

// compressAlphaDXT5 fits both ramps and keeps the one with less error, the 5-value ramp on ties.
// The 5-value ramp spans the alphas other than 0 and 255, which it reproduces exactly anyway.
func compressAlphaDXT5(rgba *Pixels, mask int) alphaBlock {
	min5, max5 := 255, 0
	min7, max7 := 255, 0
	for i, p := range rgba {
		if !maskEnabled(mask, i) {
			continue
		}
		value := int(pixel(p).A())
		min7 = minInt(min7, value)
		max7 = maxInt(max7, value)
		if value != 0 {
			min5 = minInt(min5, value)
		}
		if value != 255 {
			max5 = maxInt(max5, value)
		}
	}
	if min5 > max5 {
		min5 = max5
	}
	if min7 > max7 {
		min7 = max7
	}
	min5, max5 = fixRange(min5, max5, 5)
	min7, max7 = fixRange(min7, max7, 7)

	codes5 := alphaCodebook5(min5, max5)
	codes7 := alphaCodebook7(min7, max7)
	indices5, err5 := fitCodes(rgba, mask, &codes5)
	indices7, err7 := fitCodes(rgba, mask, &codes7)
	if err5 <= err7 {
		return writeAlphaBlock5(min5, max5, indices5)
	}
	return writeAlphaBlock7(min7, max7, indices7)
}

func readAlphaBlock(blk []byte) (a0, a1 int, indices [16]uint8) {
	var buf [8]byte
	copy(buf[:6], blk[2:8])
	codes := binary.LittleEndian.Uint64(buf[:])
	for i := range indices {
		indices[i] = uint8(codes>>(3*uint(i))) & 7
	}
	return int(blk[0]), int(blk[1]), indices
}

func decompressAlphaDXT5(rgba *Pixels, blk []byte) {
	a0, a1, indices := readAlphaBlock(blk)
	codes := makeAlphaCodebook(a0, a1)
	for i, index := range indices {
		rgba[i][3] = codes[index]
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
