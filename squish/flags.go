package squish

// Flags selects the block format, the colour fit and the modifiers of a compression call.
// The bit values match libsquish so existing flag integers keep their meaning.
type Flags int

const (
	DXT1 Flags = 1 << 0
	DXT3 Flags = 1 << 1
	DXT5 Flags = 1 << 2

	ColourClusterFit          Flags = 1 << 3
	ColourRangeFit            Flags = 1 << 4
	ColourIterativeClusterFit Flags = 1 << 8

	// WeightColourByAlpha weights each colour point by its alpha, so translucent pixels matter less.
	WeightColourByAlpha Flags = 1 << 7
	// SourceBGRA marks pixel buffers as BGRA instead of RGBA, on the way in and on the way out.
	SourceBGRA Flags = 1 << 9

	formatMask = DXT1 | DXT3 | DXT5
	fitMask    = ColourClusterFit | ColourRangeFit | ColourIterativeClusterFit
)

type Format int

const (
	FormatDXT1 Format = iota
	FormatDXT3
	FormatDXT5
)

func (f Format) String() string {
	switch f {
	case FormatDXT3:
		return "DXT3"
	case FormatDXT5:
		return "DXT5"
	default:
		return "DXT1"
	}
}

type FitMethod int

const (
	FitCluster FitMethod = iota
	FitRange
	FitIterativeCluster
)

func (m FitMethod) String() string {
	switch m {
	case FitRange:
		return "range"
	case FitIterativeCluster:
		return "iterative-cluster"
	default:
		return "cluster"
	}
}

// Options is the normalized form of Flags. Every entry point converts its Flags once and
// works on Options from then on.
type Options struct {
	Format              Format
	Fit                 FitMethod
	WeightColourByAlpha bool
	SourceBGRA          bool
}

// Options normalizes f. A format group other than exactly DXT3 or DXT5 collapses to DXT1,
// a fit group other than exactly range or iterative cluster collapses to cluster fit.
func (f Flags) Options() Options {
	var o Options
	switch f & formatMask {
	case DXT3:
		o.Format = FormatDXT3
	case DXT5:
		o.Format = FormatDXT5
	default:
		o.Format = FormatDXT1
	}
	switch f & fitMask {
	case ColourRangeFit:
		o.Fit = FitRange
	case ColourIterativeClusterFit:
		o.Fit = FitIterativeCluster
	default:
		o.Fit = FitCluster
	}
	o.WeightColourByAlpha = f&WeightColourByAlpha != 0
	o.SourceBGRA = f&SourceBGRA != 0
	return o
}

// Normalize returns f with every group reduced to a single valid value.
func (f Flags) Normalize() Flags {
	return f.Options().Flags()
}

func (o Options) Flags() Flags {
	var f Flags
	switch o.Format {
	case FormatDXT3:
		f |= DXT3
	case FormatDXT5:
		f |= DXT5
	default:
		f |= DXT1
	}
	switch o.Fit {
	case FitRange:
		f |= ColourRangeFit
	case FitIterativeCluster:
		f |= ColourIterativeClusterFit
	default:
		f |= ColourClusterFit
	}
	if o.WeightColourByAlpha {
		f |= WeightColourByAlpha
	}
	if o.SourceBGRA {
		f |= SourceBGRA
	}
	return f
}

func (o Options) isDXT1() bool {
	return o.Format != FormatDXT3 && o.Format != FormatDXT5
}

// BlockSize is the number of bytes one 4x4 tile occupies in the compressed stream.
func (o Options) BlockSize() int {
	if o.isDXT1() {
		return colourBlockSize
	}
	return colourBlockSize + alphaBlockSize
}
