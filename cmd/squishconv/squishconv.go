package main

import (
	"errors"
	"flag"
	"fmt"
	"github.com/disintegration/imaging"
	"image"
	"log"
	"os"
	"squish/squish"
	"strconv"
	"strings"
)

const usage = `Usage: squishconv [-format dxt1|dxt3|dxt5] [-fit range|cluster|iterative] [-alpha-weight] [-metric r,g,b] <infile> <outfile>
Examples:
	squishconv -format dxt5 input.png output.blocks
	squishconv -fit iterative input.png preview.png`

func main() {
	format := flag.String("format", "dxt1", "block format: dxt1|dxt3|dxt5")
	fit := flag.String("fit", "cluster", "colour fit: range|cluster|iterative")
	alphaWeight := flag.Bool("alpha-weight", false, "weight colour error by alpha")
	metric := flag.String("metric", "", "per-channel error weights, e.g. 0.2126,0.7152,0.0722")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 2 {
		printUsage()
		return
	}

	flags, err := parseFlags(*format, *fit, *alphaWeight)
	if err != nil {
		log.Fatalf("Could not parse the options: %v", err)
	}
	m, err := parseMetric(*metric)
	if err != nil {
		log.Fatalf("Could not parse the metric: %v", err)
	}

	inputFilename := flag.Arg(0)
	outputFilename := flag.Arg(1)

	inputImg := openImage(inputFilename)
	blocks, err := squish.EncodeImage(inputImg, flags, m)
	if err != nil {
		log.Fatalf("Could not compress the image: %v", err)
	}
	reportMSE(inputImg, blocks, flags)

	if isBlocksFilename(outputFilename) {
		writeBlocks(blocks, outputFilename)
		return
	}
	writePreviewImage(blocks, inputImg.Bounds().Size(), flags, outputFilename)
}

func printUsage() {
	fmt.Println(usage)
}

func parseFlags(format, fit string, alphaWeight bool) (squish.Flags, error) {
	var o squish.Options
	switch strings.ToLower(format) {
	case "dxt1", "bc1":
		o.Format = squish.FormatDXT1
	case "dxt3", "bc2":
		o.Format = squish.FormatDXT3
	case "dxt5", "bc3":
		o.Format = squish.FormatDXT5
	default:
		return 0, fmt.Errorf("unknown format %q", format)
	}
	switch strings.ToLower(fit) {
	case "range":
		o.Fit = squish.FitRange
	case "cluster":
		o.Fit = squish.FitCluster
	case "iterative":
		o.Fit = squish.FitIterativeCluster
	default:
		return 0, fmt.Errorf("unknown fit %q", fit)
	}
	o.WeightColourByAlpha = alphaWeight
	return o.Flags(), nil
}

func parseMetric(s string) (*squish.Metric, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, errors.New("expected three comma separated weights")
	}
	var m squish.Metric
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("could not parse weight %q: %w", p, err)
		}
		m[i] = float32(v)
	}
	return &m, nil
}

func openImage(filename string) image.Image {
	inputImg, err := imaging.Open(filename)
	checkForUnsupportedFormat(err)
	if err != nil {
		log.Fatalf("Could not open the input image: %v", err)
	}
	return inputImg
}

func checkForUnsupportedFormat(err error) {
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		fmt.Println("The only supported formats are png, jpeg, gif, bmp & tiff")
		os.Exit(1)
	}
}

func reportMSE(img image.Image, blocks []byte, flags squish.Flags) {
	colourMSE, alphaMSE, err := squish.ImageMSE(img, blocks, flags)
	if err != nil {
		log.Fatalf("Could not measure the compressed image: %v", err)
	}
	fmt.Printf("%v colour MSE %.4f, alpha MSE %.4f\n", flags.Options().Format, colourMSE, alphaMSE)
}

func isBlocksFilename(filename string) bool {
	return strings.HasSuffix(filename, ".blocks")
}

func writeBlocks(blocks []byte, outputFilename string) {
	err := os.WriteFile(outputFilename, blocks, 0644)
	if err != nil {
		log.Fatalf("Could not write the block file: %v", err)
	}
}

func writePreviewImage(blocks []byte, size image.Point, flags squish.Flags, outputFilename string) {
	img, err := squish.DecodeImage(blocks, size.X, size.Y, flags)
	if err != nil {
		log.Fatalf("Could not decompress the image: %v", err)
	}
	err = imaging.Save(img, outputFilename)
	checkForUnsupportedFormat(err)
	if err != nil {
		log.Fatalf("Could not save the output image: %v", err)
	}
}
