package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/vearutop/avifpix"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "info":
		if err := runInfo(os.Args[2:]); err != nil {
			fail(err)
		}
	case "crop":
		if err := runCrop(os.Args[2:]); err != nil {
			fail(err)
		}
	case "scale":
		if err := runScale(os.Args[2:]); err != nil {
			fail(err)
		}
	case "torgb":
		if err := runToRGB(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: avifpixtool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  info  --in input.y4m")
	fmt.Fprintln(os.Stderr, "  crop  --in input.y4m --out output.y4m --x 0 --y 0 --w 100 --h 100")
	fmt.Fprintln(os.Stderr, "  scale --in input.y4m --out output.y4m --w 100 --h 100")
	fmt.Fprintln(os.Stderr, "  torgb --in input.y4m --out output.ppm [--bilinear]")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func readImage(path string) (*avifpix.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return avifpix.ReadY4M(f)
}

func writeImage(path string, img *avifpix.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := avifpix.WriteY4M(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	inPath := fs.String("in", "", "input Y4M")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	img, err := readImage(*inPath)
	if err != nil {
		return err
	}
	rng := "limited"
	if img.YUVRange == avifpix.RangeFull {
		rng = "full"
	}
	fmt.Printf("%dx%d %s %d-bit %s range alpha=%v\n",
		img.Width, img.Height, img.YUVFormat, img.Depth, rng, img.HasAlpha())
	return nil
}

func runCrop(args []string) error {
	fs := flag.NewFlagSet("crop", flag.ContinueOnError)
	inPath := fs.String("in", "", "input Y4M")
	outPath := fs.String("out", "", "output Y4M")
	x := fs.Int("x", 0, "left edge")
	y := fs.Int("y", 0, "top edge")
	w := fs.Int("w", 0, "crop width")
	h := fs.Int("h", 0, "crop height")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" || *w <= 0 || *h <= 0 {
		return errors.New("missing required arguments")
	}
	img, err := readImage(*inPath)
	if err != nil {
		return err
	}
	view, err := img.View(avifpix.CropRect{X: *x, Y: *y, Width: *w, Height: *h})
	if err != nil {
		return err
	}
	return writeImage(*outPath, view)
}

func runScale(args []string) error {
	fs := flag.NewFlagSet("scale", flag.ContinueOnError)
	inPath := fs.String("in", "", "input Y4M")
	outPath := fs.String("out", "", "output Y4M")
	w := fs.Int("w", 0, "target width")
	h := fs.Int("h", 0, "target height")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" || *w <= 0 || *h <= 0 {
		return errors.New("missing required arguments")
	}
	img, err := readImage(*inPath)
	if err != nil {
		return err
	}
	if err := img.Scale(*w, *h); err != nil {
		return err
	}
	return writeImage(*outPath, img)
}

func runToRGB(args []string) error {
	fs := flag.NewFlagSet("torgb", flag.ContinueOnError)
	inPath := fs.String("in", "", "input Y4M")
	outPath := fs.String("out", "", "output PPM (P6) or PGM (P5) for monochrome")
	bilinear := fs.Bool("bilinear", false, "bilinear chroma upsampling")
	threads := fs.Int("threads", 1, "worker goroutines")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	img, err := readImage(*inPath)
	if err != nil {
		return err
	}

	rgb := avifpix.NewRGBImage(img)
	rgb.Format = avifpix.FormatRGB
	rgb.MaxThreads = *threads
	if *bilinear {
		rgb.ChromaUpsampling = avifpix.UpsampleBilinear
	}
	if img.YUVFormat == avifpix.PixelFormatYUV400 {
		rgb.Format = avifpix.FormatGray
	}
	if err := rgb.ConvertFromYUV(img); err != nil {
		return err
	}
	return writePNM(*outPath, rgb)
}

// writePNM writes binary PPM (color) or PGM (gray). Samples above 8 bits
// are written big-endian per the netpbm convention.
func writePNM(path string, rgb *avifpix.RGBImage) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	magic := "P6"
	channels := 3
	if rgb.Format == avifpix.FormatGray {
		magic = "P5"
		channels = 1
	}
	if _, err := fmt.Fprintf(f, "%s\n%d %d\n%d\n", magic, rgb.Width, rgb.Height, rgb.MaxChannel()); err != nil {
		return err
	}

	if rgb.Depth == 8 {
		for y := 0; y < rgb.Height; y++ {
			row, err := rgb.Row(y)
			if err != nil {
				return err
			}
			if _, err := f.Write(row[:rgb.Width*channels]); err != nil {
				return err
			}
		}
		return nil
	}
	buf := make([]byte, rgb.Width*channels*2)
	for y := 0; y < rgb.Height; y++ {
		row, err := rgb.Row16(y)
		if err != nil {
			return err
		}
		for i, v := range row[:rgb.Width*channels] {
			buf[2*i] = byte(v >> 8)
			buf[2*i+1] = byte(v)
		}
		if _, err := f.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
