package squish

// Image buffers hold 4 bytes per pixel in rows pitch bytes apart; a pitch of 0 means width*4.
// Block streams hold one block per 4x4 tile, tiles in row-major order. Buffers must be at
// least as large as the dimensions imply, see GetStorageRequirements.

func resolvePitch(width, pitch int) int {
	if pitch <= 0 {
		return width * 4
	}
	return pitch
}

// tileIter walks the 4x4 tiles of an image and the offsets of their in-bounds pixels.
type tileIter struct {
	width, height, pitch int
	x, y                 int
	started              bool
}

func newTileIter(width, height, pitch int) *tileIter {
	return &tileIter{width: width, height: height, pitch: resolvePitch(width, pitch)}
}

func (t *tileIter) next() bool {
	if t.width <= 0 || t.height <= 0 {
		return false
	}
	if !t.started {
		t.started = true
		return true
	}
	t.x += 4
	if t.x >= t.width {
		t.x = 0
		t.y += 4
	}
	return t.y < t.height
}

// each calls fn with the tile position and buffer offset of every in-bounds pixel of the tile.
func (t *tileIter) each(fn func(i, offset int)) {
	for py := 0; py < 4; py++ {
		sy := t.y + py
		if sy >= t.height {
			return
		}
		for px := 0; px < 4; px++ {
			sx := t.x + px
			if sx >= t.width {
				break
			}
			fn(4*py+px, t.pitch*sy+4*sx)
		}
	}
}

// CompressImage compresses a width x height image into blocks.
func CompressImage(blocks, rgba []byte, width, height, pitch int, flags Flags, metric *Metric) {
	o := flags.Options()
	m := normalizeMetric(metric)
	size := o.BlockSize()

	target := blocks
	tiles := newTileIter(width, height, pitch)
	for tiles.next() {
		var tile Pixels
		mask := 0
		tiles.each(func(i, offset int) {
			tile[i] = copyRGBA(rgba[offset:], o.SourceBGRA)
			mask |= 1 << uint(i)
		})
		compressMasked(target[:size], &tile, mask, o, m)
		target = target[size:]
	}
}

// DecompressImage decodes blocks into a width x height image, writing only in-bounds pixels.
func DecompressImage(rgba []byte, width, height, pitch int, blocks []byte, flags Flags) {
	o := flags.Options()
	size := o.BlockSize()

	source := blocks
	tiles := newTileIter(width, height, pitch)
	for tiles.next() {
		var tile Pixels
		decompress(&tile, source[:size], o)
		tiles.each(func(i, offset int) {
			writeRGBA(rgba[offset:], tile[i], o.SourceBGRA)
		})
		source = source[size:]
	}
}

// ComputeMSE decodes blocks and measures them against the original image. The colour error
// is averaged over the three colour channels; pixels transparent in both images count as
// exact matches whatever their colour channels hold.
func ComputeMSE(rgba []byte, width, height, pitch int, blocks []byte, flags Flags) (colourMSE, alphaMSE float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	o := flags.Options()
	size := o.BlockSize()

	source := blocks
	tiles := newTileIter(width, height, pitch)
	for tiles.next() {
		var tile Pixels
		decompress(&tile, source[:size], o)
		tiles.each(func(i, offset int) {
			original := copyRGBA(rgba[offset:], o.SourceBGRA)
			decoded := pixel(tile[i])
			var cmse float64
			for c := 0; c < 3; c++ {
				cmse += errorSq(original[c], decoded[c])
			}
			if original.A() == 0 && decoded.A() == 0 {
				cmse = 0
			}
			colourMSE += cmse
			alphaMSE += errorSq(original.A(), decoded.A())
		})
		source = source[size:]
	}
	pixels := float64(width * height)
	return colourMSE / (pixels * 3), alphaMSE / pixels
}

func errorSq(x, y uint8) float64 {
	d := float64(x) - float64(y)
	return d * d
}
