// Package decode wraps the zxing barcode engine behind a small adapter that
// turns an image into a deterministic list of detections.
package decode

import (
	"image"
	"math"
	"sort"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"
)

// Detection is one decoded barcode: its payload string and the bounding box
// in source-image pixel coordinates.
type Detection struct {
	Payload string
	Box     image.Rectangle
}

// Decoder extracts barcode detections from an image. An image without any
// decodable barcode yields an empty slice, not an error.
type Decoder interface {
	Decode(img image.Image) ([]Detection, error)
}

type zxingDecoder struct {
	matrix multi.MultipleBarcodeReader
	linear multi.MultipleBarcodeReader
}

// New returns a Decoder covering QR codes and the common 1D formats
// (EAN/UPC, Code 39/93/128, ITF, Codabar).
func New() Decoder {
	return &zxingDecoder{
		matrix: multiqr.NewQRCodeMultiReader(),
		linear: &onedMultiReader{readers: []gozxing.Reader{
			oned.NewMultiFormatUPCEANReader(nil),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
			oned.NewCode93Reader(),
			oned.NewITFReader(),
			oned.NewCodaBarReader(),
		}},
	}
}

// onedMultiReader fans a bitmap out to one reader per 1D format. The oned
// package only ships single-format readers, so multi-format coverage is
// composed here.
type onedMultiReader struct {
	readers []gozxing.Reader
}

func (m *onedMultiReader) DecodeMultiple(bmp *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) ([]*gozxing.Result, error) {
	var results []*gozxing.Result
	for _, r := range m.readers {
		if found, err := r.Decode(bmp, hints); err == nil {
			results = append(results, found)
		}
	}
	if len(results) == 0 {
		return nil, gozxing.NewNotFoundException()
	}
	return results, nil
}

func (m *onedMultiReader) DecodeMultipleWithoutHint(bmp *gozxing.BinaryBitmap) ([]*gozxing.Result, error) {
	return m.DecodeMultiple(bmp, nil)
}

func (d *zxingDecoder) Decode(img image.Image) ([]Detection, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, err
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	// Both readers signal "nothing found" with an error; that is a normal
	// outcome for this adapter, not a failure.
	var results []*gozxing.Result
	if found, err := d.matrix.DecodeMultiple(bmp, hints); err == nil {
		results = append(results, found...)
	}
	if found, err := d.linear.DecodeMultiple(bmp, hints); err == nil {
		results = append(results, found...)
	}

	detections := make([]Detection, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		det := Detection{
			Payload: r.GetText(),
			Box:     boundsFromPoints(r.GetResultPoints(), img.Bounds()),
		}
		key := det.Payload + "|" + det.Box.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		detections = append(detections, det)
	}

	sortDetections(detections)
	return detections, nil
}

// boxPadding widens the box derived from result points, which sit inside
// the symbol rather than on its edge.
const boxPadding = 6

func boundsFromPoints(points []gozxing.ResultPoint, limit image.Rectangle) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range points {
		minX = math.Min(minX, pt.GetX())
		minY = math.Min(minY, pt.GetY())
		maxX = math.Max(maxX, pt.GetX())
		maxY = math.Max(maxY, pt.GetY())
	}

	box := image.Rect(int(minX), int(minY), int(maxX)+1, int(maxY)+1)
	return box.Inset(-boxPadding).Intersect(limit)
}

// sortDetections fixes the iteration order so a rerun over the same inputs
// produces identical report rows.
func sortDetections(detections []Detection) {
	sort.Slice(detections, func(i, j int) bool {
		if detections[i].Payload != detections[j].Payload {
			return detections[i].Payload < detections[j].Payload
		}
		if detections[i].Box.Min.Y != detections[j].Box.Min.Y {
			return detections[i].Box.Min.Y < detections[j].Box.Min.Y
		}
		return detections[i].Box.Min.X < detections[j].Box.Min.X
	})
}
