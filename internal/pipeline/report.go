package pipeline

import (
	"github.com/shelfscan/shelfscan/pkg/lookup"
)

const (
	// ReportFileName is the CSV report written into the output folder.
	ReportFileName = "detected_barcodes.csv"

	timestampLayout = "2006-01-02 15:04:05"
)

var reportHeader = []string{
	"Serial Code", "EAN", "Title", "UPC", "GTIN", "ASIN", "Description",
	"Brand", "Model", "Dimension", "Weight", "Category", "Currency",
	"Lowest Recorded Price", "Highest Recorded Price", "Images", "Offers",
	"Timestamp", "Is Duplicate",
}

func reportRow(serialCode string, p lookup.Product, timestamp string, isDuplicate bool) []string {
	return []string{
		serialCode,
		p.EAN,
		p.Title,
		p.UPC,
		p.GTIN,
		p.ASIN,
		p.Description,
		p.Brand,
		p.Model,
		p.Dimension,
		p.Weight,
		p.Category,
		p.Currency,
		lookup.FormatPrice(p.LowestPrice),
		lookup.FormatPrice(p.HighestPrice),
		p.JoinedImages(),
		p.JoinedOffers(),
		timestamp,
		yesNo(isDuplicate),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
