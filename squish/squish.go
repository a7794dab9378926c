// Package squish compresses 4x4 RGBA tiles into S3TC blocks (DXT1/BC1, DXT3/BC2, DXT5/BC3)
// and back.
//
// Every call is a pure function of its inputs: no state is kept between blocks, so callers
// are free to compress tiles in any order or in parallel.
package squish

import "github.com/go-gl/mathgl/mgl32"

// CompressMasked compresses the pixels of rgba whose bit is set in mask into a block of
// 8 bytes (DXT1) or 16 bytes (DXT3, DXT5). Bit i of mask enables pixel i; disabled pixels
// do not influence the encoding. A nil metric weights all channels equally.
func CompressMasked(rgba Pixels, mask int, flags Flags, metric *Metric) []byte {
	o := flags.Options()
	block := make([]byte, o.BlockSize())
	compressMasked(block, &rgba, mask, o, normalizeMetric(metric))
	return block
}

// Compress compresses all 16 pixels of rgba.
func Compress(rgba Pixels, flags Flags, metric *Metric) []byte {
	return CompressMasked(rgba, fullMask, flags, metric)
}

// Decompress reconstructs all 16 pixels of block.
func Decompress(block []byte, flags Flags) Pixels {
	var rgba Pixels
	decompress(&rgba, block, flags.Options())
	return rgba
}

// GetStorageRequirements returns the size of the block stream for a width x height image.
func GetStorageRequirements(width, height int, flags Flags) int {
	blocks := ((width + 3) / 4) * ((height + 3) / 4)
	return blocks * flags.Options().BlockSize()
}

// compressMasked writes the block for one tile into dst. For DXT3 and DXT5 the alpha block
// comes first and the colour block follows it.
func compressMasked(dst []byte, rgba *Pixels, mask int, o Options, metric mgl32.Vec3) {
	colourDst := dst
	if !o.isDXT1() {
		colourDst = dst[alphaBlockSize:]
	}

	set := newColourSet(rgba, mask, o)
	colour := compressColour(set, o, metric)
	copy(colourDst[:colourBlockSize], colour[:])

	switch o.Format {
	case FormatDXT3:
		alpha := compressAlphaDXT3(rgba, mask)
		copy(dst[:alphaBlockSize], alpha[:])
	case FormatDXT5:
		alpha := compressAlphaDXT5(rgba, mask)
		copy(dst[:alphaBlockSize], alpha[:])
	}
}

func decompress(rgba *Pixels, block []byte, o Options) {
	colourBlk := block
	if !o.isDXT1() {
		colourBlk = block[alphaBlockSize:]
	}
	*rgba = decompressColour(colourBlk, o.isDXT1())

	switch o.Format {
	case FormatDXT3:
		decompressAlphaDXT3(rgba, block)
	case FormatDXT5:
		decompressAlphaDXT5(rgba, block)
	}
}
