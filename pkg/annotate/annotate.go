// Package annotate draws detection boxes onto copies of source images and
// handles image file IO for the pipeline.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Fixed presentation constants for the detection boxes.
const (
	outlineThickness = 2
	jpegQuality      = 90
)

var outlineColor = color.RGBA{R: 255, A: 255}

// Draw returns a copy of img with an outline for every box. The source
// image is never mutated.
func Draw(img image.Image, boxes []image.Rectangle) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	for _, box := range boxes {
		drawOutline(out, box.Intersect(out.Bounds()))
	}
	return out
}

func drawOutline(dst *image.RGBA, box image.Rectangle) {
	for t := 0; t < outlineThickness; t++ {
		r := box.Inset(t)
		if r.Empty() {
			return
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetRGBA(x, r.Min.Y, outlineColor)
			dst.SetRGBA(x, r.Max.Y-1, outlineColor)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			dst.SetRGBA(r.Min.X, y, outlineColor)
			dst.SetRGBA(r.Max.X-1, y, outlineColor)
		}
	}
}

// ReadImage loads a PNG or JPEG image from disk.
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// WriteImage encodes the image to disk, choosing the codec from the file
// extension.
func WriteImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	case ".png":
		err = png.Encode(f, img)
	default:
		err = fmt.Errorf("unsupported image extension: %s", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return f.Close()
}
