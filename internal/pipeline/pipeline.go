// Package pipeline runs the batch scan: decode every image in the input
// folder, resolve each unique barcode exactly once, and append the result
// to both the CSV report and the record store.
package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shelfscan/shelfscan/internal/utils"
	"github.com/shelfscan/shelfscan/pkg/annotate"
	"github.com/shelfscan/shelfscan/pkg/decode"
	"github.com/shelfscan/shelfscan/pkg/lookup"
)

// Lookuper resolves a barcode payload to product attributes.
type Lookuper interface {
	Lookup(ctx context.Context, code string) (lookup.Product, error)
}

// RecordSink receives one entry per unique barcode resolved during the run.
type RecordSink interface {
	Insert(ctx context.Context, serialCode string, p lookup.Product, isDuplicate bool) error
}

// Options configures a single pipeline run. All run state lives in Run's
// locals, so one process can perform independent runs back to back.
type Options struct {
	InputDir  string
	OutputDir string

	Decoder decode.Decoder
	Lookup  Lookuper
	Store   RecordSink

	// Now stamps report rows; defaults to time.Now.
	Now func() time.Time
}

// Summary reports what a completed run did.
type Summary struct {
	ImagesProcessed int
	ImagesSkipped   int
	Detections      int
	UniqueCodes     int
	DuplicateSkips  int
	LookupMisses    int
	ReportPath      string
}

// Run executes the scan over every image in the input folder, in
// lexicographic filename order. Unreadable images and failed lookups are
// logged and absorbed; a write failure on either sink aborts the run.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}

	files, err := listImageFiles(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("list input folder: %w", err)
	}

	reportPath := filepath.Join(opts.OutputDir, ReportFileName)
	reportFile, err := os.Create(reportPath)
	if err != nil {
		return nil, fmt.Errorf("open report sink: %w", err)
	}
	defer reportFile.Close()

	report := csv.NewWriter(reportFile)
	if err := report.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("write report header: %w", err)
	}

	sum := &Summary{ReportPath: reportPath}
	seen := make(map[string]struct{})

	for _, name := range files {
		img, err := annotate.ReadImage(filepath.Join(opts.InputDir, name))
		if err != nil {
			utils.Log.Warnf("Unable to read image %s: %v", name, err)
			sum.ImagesSkipped++
			continue
		}

		detections, err := opts.Decoder.Decode(img)
		if err != nil {
			// Treated like an image with no decodable barcodes; the
			// annotated copy is still written below.
			utils.Log.Warnf("Barcode detection failed for %s: %v", name, err)
			detections = nil
		}
		sum.Detections += len(detections)

		for _, det := range detections {
			// The duplicate flag is decided before the payload joins the
			// seen set, then fixed for good.
			_, isDuplicate := seen[det.Payload]
			if isDuplicate {
				utils.Log.Debugf("Duplicate barcode %s in %s, skipping", det.Payload, name)
				sum.DuplicateSkips++
				continue
			}
			seen[det.Payload] = struct{}{}

			product, err := opts.Lookup.Lookup(ctx, det.Payload)
			if err != nil {
				// Both a miss and a transport failure yield a row with
				// defaulted attributes; the code still counts as seen.
				sum.LookupMisses++
				product = lookup.Product{}
				if errors.Is(err, lookup.ErrNotFound) {
					utils.Log.Infof("No product match for barcode %s", det.Payload)
				} else {
					utils.Log.Warnf("Lookup failed for barcode %s: %v", det.Payload, err)
				}
			}

			timestamp := opts.Now().Format(timestampLayout)
			if err := report.Write(reportRow(det.Payload, product, timestamp, isDuplicate)); err != nil {
				return nil, fmt.Errorf("write report row for %s: %w", det.Payload, err)
			}
			if err := opts.Store.Insert(ctx, det.Payload, product, isDuplicate); err != nil {
				return nil, fmt.Errorf("store record for %s: %w", det.Payload, err)
			}
			sum.UniqueCodes++
		}

		boxes := make([]image.Rectangle, len(detections))
		for i, det := range detections {
			boxes[i] = det.Box
		}
		outPath := filepath.Join(opts.OutputDir, name)
		if err := annotate.WriteImage(outPath, annotate.Draw(img, boxes)); err != nil {
			return nil, fmt.Errorf("write annotated image %s: %w", name, err)
		}

		utils.Log.Infof("Processed image: %s -> %s", name, outPath)
		sum.ImagesProcessed++
	}

	report.Flush()
	if err := report.Error(); err != nil {
		return nil, fmt.Errorf("flush report: %w", err)
	}
	if err := reportFile.Close(); err != nil {
		return nil, fmt.Errorf("close report: %w", err)
	}
	return sum, nil
}

// listImageFiles returns the image filenames in dir, sorted so that runs
// over the same folder always enumerate in the same order.
func listImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
