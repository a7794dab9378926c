package squish

import (
	"errors"
	"fmt"
	"github.com/disintegration/imaging"
	"image"
	"image/color"
)

var (
	ErrEmptyImage     = errors.New("image has no pixels")
	ErrShortBlockData = errors.New("block data is too short")
)

// EncodeImage compresses img into a block stream, one worker per CPU. Images that are not
// *image.NRGBA are converted first; S3TC stores straight, not premultiplied, alpha.
func EncodeImage(img image.Image, flags Flags, metric *Metric) ([]byte, error) {
	nrgba := toNRGBA(img)
	width, height := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}
	blocks := make([]byte, GetStorageRequirements(width, height, flags))
	CompressImageParallel(blocks, nrgba.Pix, width, height, nrgba.Stride, flags.Normalize()&^SourceBGRA, metric, 0)
	return blocks, nil
}

// DecodeImage decodes a width x height block stream into a new image.
func DecodeImage(blocks []byte, width, height int, flags Flags) (*image.NRGBA, error) {
	if err := checkBlocks(blocks, width, height, flags); err != nil {
		return nil, err
	}
	img := imaging.New(width, height, color.NRGBA{})
	DecompressImage(img.Pix, width, height, img.Stride, blocks, flags.Normalize()&^SourceBGRA)
	return img, nil
}

// ImageMSE measures how far blocks decode from img, see ComputeMSE.
func ImageMSE(img image.Image, blocks []byte, flags Flags) (colourMSE, alphaMSE float64, err error) {
	nrgba := toNRGBA(img)
	width, height := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	if err := checkBlocks(blocks, width, height, flags); err != nil {
		return 0, 0, err
	}
	colourMSE, alphaMSE = ComputeMSE(nrgba.Pix, width, height, nrgba.Stride, blocks, flags.Normalize()&^SourceBGRA)
	return colourMSE, alphaMSE, nil
}

func checkBlocks(blocks []byte, width, height int, flags Flags) error {
	if width <= 0 || height <= 0 {
		return ErrEmptyImage
	}
	if want := GetStorageRequirements(width, height, flags); len(blocks) < want {
		return fmt.Errorf("could not decode %dx%d %v image: %w (have %d bytes, want %d)",
			width, height, flags.Options().Format, ErrShortBlockData, len(blocks), want)
	}
	return nil
}

// toNRGBA returns img as an NRGBA image whose bounds start at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	return imaging.Clone(img)
}
