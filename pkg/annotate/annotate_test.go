package annotate

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func uniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestDraw_OutlinesBoxWithoutMutatingSource(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	src := uniformImage(100, 100, white)
	box := image.Rect(20, 20, 60, 60)

	out := Draw(src, []image.Rectangle{box})

	// Box edge painted on the copy.
	if out.RGBAAt(20, 20) != outlineColor {
		t.Fatalf("expected outline color at box corner, got %v", out.RGBAAt(20, 20))
	}
	if out.RGBAAt(59, 59) != outlineColor {
		t.Fatalf("expected outline color at opposite corner, got %v", out.RGBAAt(59, 59))
	}
	// Interior untouched.
	if out.RGBAAt(40, 40) != white {
		t.Fatalf("expected interior pixel unchanged, got %v", out.RGBAAt(40, 40))
	}
	// Source never mutated.
	if src.RGBAAt(20, 20) != white {
		t.Fatalf("source image was mutated at box corner: %v", src.RGBAAt(20, 20))
	}
}

func TestDraw_NoBoxesCopiesImage(t *testing.T) {
	gray := color.RGBA{128, 128, 128, 255}
	src := uniformImage(10, 10, gray)

	out := Draw(src, nil)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if out.RGBAAt(x, y) != gray {
				t.Fatalf("pixel (%d,%d) changed: %v", x, y, out.RGBAAt(x, y))
			}
		}
	}
}

func TestWriteAndReadImage_PNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	src := uniformImage(8, 8, color.RGBA{0, 255, 0, 255})

	if err := WriteImage(path, src); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	img, err := ReadImage(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("bounds mismatch: %v vs %v", img.Bounds(), src.Bounds())
	}
}

func TestWriteImage_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	err := WriteImage(filepath.Join(dir, "out.gif"), uniformImage(4, 4, color.RGBA{}))
	if err == nil {
		t.Fatal("expected an error for unsupported extension")
	}
}

func TestReadImage_Garbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadImage(path); err == nil {
		t.Fatal("expected an error for a corrupt image")
	}
}
