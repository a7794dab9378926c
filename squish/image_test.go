package squish

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand"
	"testing"
)

func randomImage(rng *rand.Rand, width, height, pitch int) []byte {
	pitch = resolvePitch(width, pitch)
	rgba := bytes.Repeat([]byte{0xab}, pitch*(height-1)+width*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := y*pitch + x*4
			for c := 0; c < 4; c++ {
				rgba[offset+c] = uint8(rng.Intn(256))
			}
		}
	}
	return rgba
}

func TestTileIter(t *testing.T) {
	tiles := newTileIter(5, 6, 0)
	var origins [][2]int
	pixels := 0
	for tiles.next() {
		origins = append(origins, [2]int{tiles.x, tiles.y})
		tiles.each(func(i, offset int) {
			pixels++
			assert.Equal(t, (tiles.y+i/4)*20+(tiles.x+i%4)*4, offset)
		})
	}
	assert.Equal(t, [][2]int{{0, 0}, {4, 0}, {0, 4}, {4, 4}}, origins)
	assert.Equal(t, 30, pixels)

	assert.False(t, newTileIter(0, 4, 0).next())
	assert.False(t, newTileIter(4, 0, 0).next())
}

func TestImageWithPaddedPitch(t *testing.T) {
	const width, height, pitch = 5, 5, 5*4 + 8
	rng := rand.New(rand.NewSource(7))
	for _, flags := range []Flags{DXT1, DXT3, DXT5} {
		rgba := randomImage(rng, width, height, pitch)
		blocks := make([]byte, GetStorageRequirements(width, height, flags))
		require.NotPanics(t, func() {
			CompressImage(blocks, rgba, width, height, pitch, flags, nil)
		})

		decoded := bytes.Repeat([]byte{0xab}, len(rgba))
		require.NotPanics(t, func() {
			DecompressImage(decoded, width, height, pitch, blocks, flags)
		})
		for y := 0; y < height-1; y++ {
			padding := decoded[y*pitch+width*4 : (y+1)*pitch]
			assert.Equal(t, bytes.Repeat([]byte{0xab}, pitch-width*4), padding, "row %d", y)
		}
	}
}

func TestImageMatchesBlockwiseCompression(t *testing.T) {
	const width, height = 8, 4
	rng := rand.New(rand.NewSource(8))
	rgba := randomImage(rng, width, height, 0)
	blocks := make([]byte, GetStorageRequirements(width, height, DXT5))
	CompressImage(blocks, rgba, width, height, 0, DXT5, &PerceptualMetric)

	for tx := 0; tx < 2; tx++ {
		var tile Pixels
		for i := range tile {
			offset := (i/4)*width*4 + (tx*4+i%4)*4
			copy(tile[i][:], rgba[offset:offset+4])
		}
		assert.Equal(t, Compress(tile, DXT5, &PerceptualMetric), blocks[tx*16:(tx+1)*16])
	}
}

func swapRedBlue(rgba []byte) []byte {
	bgra := make([]byte, len(rgba))
	for i := 0; i+3 < len(rgba); i += 4 {
		bgra[i], bgra[i+1], bgra[i+2], bgra[i+3] = rgba[i+2], rgba[i+1], rgba[i], rgba[i+3]
	}
	return bgra
}

func TestSourceBGRA(t *testing.T) {
	const width, height = 7, 6
	rng := rand.New(rand.NewSource(9))
	rgba := randomImage(rng, width, height, 0)
	bgra := swapRedBlue(rgba)

	for _, flags := range []Flags{DXT1, DXT3, DXT5} {
		size := GetStorageRequirements(width, height, flags)
		fromRGBA := make([]byte, size)
		fromBGRA := make([]byte, size)
		CompressImage(fromRGBA, rgba, width, height, 0, flags, nil)
		CompressImage(fromBGRA, bgra, width, height, 0, flags|SourceBGRA, nil)
		require.Equal(t, fromRGBA, fromBGRA)

		decodedRGBA := make([]byte, len(rgba))
		decodedBGRA := make([]byte, len(rgba))
		DecompressImage(decodedRGBA, width, height, 0, fromRGBA, flags)
		DecompressImage(decodedBGRA, width, height, 0, fromRGBA, flags|SourceBGRA)
		assert.Equal(t, swapRedBlue(decodedRGBA), decodedBGRA)

		c1, a1 := ComputeMSE(rgba, width, height, 0, fromRGBA, flags)
		c2, a2 := ComputeMSE(bgra, width, height, 0, fromRGBA, flags|SourceBGRA)
		assert.Equal(t, c1, c2)
		assert.Equal(t, a1, a2)
	}
}

func TestComputeMSE(t *testing.T) {
	const width, height = 6, 5
	rng := rand.New(rand.NewSource(10))
	rgba := randomImage(rng, width, height, 0)
	for i := 3; i < len(rgba); i += 4 {
		rgba[i] = 255
	}

	for _, flags := range []Flags{DXT1, DXT5} {
		blocks := make([]byte, GetStorageRequirements(width, height, flags))
		CompressImage(blocks, rgba, width, height, 0, flags, nil)
		decoded := make([]byte, len(rgba))
		DecompressImage(decoded, width, height, 0, blocks, flags)

		var colourSum, alphaSum float64
		for i := 0; i < len(rgba); i += 4 {
			for c := 0; c < 3; c++ {
				colourSum += errorSq(rgba[i+c], decoded[i+c])
			}
			alphaSum += errorSq(rgba[i+3], decoded[i+3])
		}
		colourMSE, alphaMSE := ComputeMSE(rgba, width, height, 0, blocks, flags)
		assert.InDelta(t, colourSum/(width*height*3), colourMSE, 1e-9)
		assert.InDelta(t, alphaSum/(width*height), alphaMSE, 1e-9)
		assert.Greater(t, colourMSE, 0.0)

		colourMSE, alphaMSE = ComputeMSE(decoded, width, height, 0, blocks, flags)
		assert.Zero(t, colourMSE)
		assert.Zero(t, alphaMSE)
	}
}

func TestComputeMSETransparentPixels(t *testing.T) {
	const width, height = 4, 4
	rng := rand.New(rand.NewSource(11))
	rgba := randomImage(rng, width, height, 0)
	for i := 3; i < len(rgba); i += 4 {
		rgba[i] = 0
	}
	for _, flags := range []Flags{DXT1, DXT5} {
		blocks := make([]byte, GetStorageRequirements(width, height, flags))
		CompressImage(blocks, rgba, width, height, 0, flags, nil)
		colourMSE, alphaMSE := ComputeMSE(rgba, width, height, 0, blocks, flags)
		assert.Zero(t, colourMSE, "%v", flags.Options().Format)
		assert.Zero(t, alphaMSE, "%v", flags.Options().Format)
	}
	colourMSE, alphaMSE := ComputeMSE(nil, 0, 0, 0, nil, DXT1)
	assert.Zero(t, colourMSE)
	assert.Zero(t, alphaMSE)
}

func TestRecompressionIsStable(t *testing.T) {
	const width, height = 8, 4
	rgba := make([]byte, width*height*4)
	red := pack565(31, 0, 0).expand()
	blue := pack565(0, 0, 31).expand()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pixel{200, 100, 50, 255}
			if x >= 4 {
				p = red
				if (x+y)%2 == 1 {
					p = blue
				}
			}
			copy(rgba[(y*width+x)*4:], p[:])
		}
	}

	for _, flags := range []Flags{DXT1, DXT3, DXT5, DXT1 | ColourRangeFit, DXT5 | ColourIterativeClusterFit} {
		size := GetStorageRequirements(width, height, flags)
		image := rgba
		var rounds [][]byte
		for round := 0; round < 3; round++ {
			blocks := make([]byte, size)
			CompressImage(blocks, image, width, height, 0, flags, nil)
			rounds = append(rounds, blocks)
			image = make([]byte, len(rgba))
			DecompressImage(image, width, height, 0, blocks, flags)
		}
		assert.Equal(t, rounds[1], rounds[2], "%v", flags.Options())
	}
}

func TestCompressImageParallel(t *testing.T) {
	const width, height, pitch = 13, 10, 13*4 + 4
	rng := rand.New(rand.NewSource(12))
	rgba := randomImage(rng, width, height, pitch)
	for _, flags := range []Flags{DXT1, DXT5 | ColourRangeFit} {
		size := GetStorageRequirements(width, height, flags)
		serial := make([]byte, size)
		CompressImage(serial, rgba, width, height, pitch, flags, nil)
		for _, workers := range []int{0, 1, 3} {
			parallel := make([]byte, size)
			CompressImageParallel(parallel, rgba, width, height, pitch, flags, nil, workers)
			assert.Equal(t, serial, parallel, "%d workers", workers)
		}
	}
	assert.NotPanics(t, func() { CompressImageParallel(nil, nil, 0, 0, 0, DXT1, nil, 2) })
}

func TestRecompressionIsStableForRandomTiles(t *testing.T) {
	const width, height = 4, 4
	rng := rand.New(rand.NewSource(15))
	fits := []Flags{
		DXT1, DXT1 | ColourRangeFit, DXT1 | ColourIterativeClusterFit,
		DXT3, DXT5, DXT5 | ColourRangeFit, DXT5 | ColourIterativeClusterFit,
		DXT1 | WeightColourByAlpha,
	}
	for n := 0; n < 200; n++ {
		rgba := randomImage(rng, width, height, 0)
		for _, flags := range fits {
			size := GetStorageRequirements(width, height, flags)
			image := rgba
			var rounds [][]byte
			for round := 0; round < 4; round++ {
				blocks := make([]byte, size)
				CompressImage(blocks, image, width, height, 0, flags, nil)
				rounds = append(rounds, blocks)
				image = make([]byte, len(rgba))
				DecompressImage(image, width, height, 0, blocks, flags)
			}
			require.Equalf(t, rounds[1], rounds[2], "image %d, flags %v", n, flags.Options())
			require.Equalf(t, rounds[2], rounds[3], "image %d, flags %v", n, flags.Options())
		}
	}
}
