package decode

import (
	"image"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

func TestDecode_QRRoundTrip(t *testing.T) {
	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode("5901234123457", gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	if err != nil {
		t.Fatalf("failed to encode test QR code: %v", err)
	}

	detections, err := New().Decode(matrix)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d: %v", len(detections), detections)
	}
	if detections[0].Payload != "5901234123457" {
		t.Fatalf("unexpected payload: %q", detections[0].Payload)
	}
	if detections[0].Box.Empty() {
		t.Fatal("expected a non-empty bounding box")
	}
	if !detections[0].Box.In(matrix.Bounds()) {
		t.Fatalf("box %v escapes image bounds %v", detections[0].Box, matrix.Bounds())
	}
}

func TestDecode_EAN13RoundTrip(t *testing.T) {
	writer := oned.NewEAN13Writer()
	matrix, err := writer.Encode("5901234123457", gozxing.BarcodeFormat_EAN_13, 256, 64, nil)
	if err != nil {
		t.Fatalf("failed to encode test EAN-13 barcode: %v", err)
	}

	detections, err := New().Decode(matrix)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d: %v", len(detections), detections)
	}
	if detections[0].Payload != "5901234123457" {
		t.Fatalf("unexpected payload: %q", detections[0].Payload)
	}
	if detections[0].Box.Empty() {
		t.Fatal("expected a non-empty bounding box")
	}
}

func TestDecode_Code128RoundTrip(t *testing.T) {
	writer := oned.NewCode128Writer()
	matrix, err := writer.Encode("SHELF-0042", gozxing.BarcodeFormat_CODE_128, 256, 64, nil)
	if err != nil {
		t.Fatalf("failed to encode test Code 128 barcode: %v", err)
	}

	detections, err := New().Decode(matrix)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d: %v", len(detections), detections)
	}
	if detections[0].Payload != "SHELF-0042" {
		t.Fatalf("unexpected payload: %q", detections[0].Payload)
	}
}

func TestDecode_BlankImage(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 64, 64))

	detections, err := New().Decode(blank)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(detections) != 0 {
		t.Fatalf("expected no detections, got %v", detections)
	}
}

func TestBoundsFromPoints(t *testing.T) {
	limit := image.Rect(0, 0, 200, 200)
	points := []gozxing.ResultPoint{
		gozxing.NewResultPoint(50, 60),
		gozxing.NewResultPoint(120, 60),
		gozxing.NewResultPoint(50, 140),
	}

	box := boundsFromPoints(points, limit)
	if box.Empty() {
		t.Fatal("expected a non-empty box")
	}
	if !image.Rect(50, 60, 121, 141).In(box) {
		t.Fatalf("box %v does not cover the result points", box)
	}
	if !box.In(limit) {
		t.Fatalf("box %v escapes image bounds %v", box, limit)
	}
}

func TestBoundsFromPoints_NoPoints(t *testing.T) {
	box := boundsFromPoints(nil, image.Rect(0, 0, 10, 10))
	if !box.Empty() {
		t.Fatalf("expected empty box, got %v", box)
	}
}

func TestSortDetections(t *testing.T) {
	dets := []Detection{
		{Payload: "b", Box: image.Rect(0, 0, 10, 10)},
		{Payload: "a", Box: image.Rect(0, 50, 10, 60)},
		{Payload: "a", Box: image.Rect(0, 10, 10, 20)},
	}

	sortDetections(dets)

	want := []Detection{
		{Payload: "a", Box: image.Rect(0, 10, 10, 20)},
		{Payload: "a", Box: image.Rect(0, 50, 10, 60)},
		{Payload: "b", Box: image.Rect(0, 0, 10, 10)},
	}
	for i := range want {
		if dets[i] != want[i] {
			t.Fatalf("unexpected order at %d.\nwant: %v\ngot:  %v", i, want, dets)
		}
	}
}
