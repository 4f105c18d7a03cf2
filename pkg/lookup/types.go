package lookup

import (
	"strconv"
	"strings"
)

// Product is the normalized attribute record for one barcode. String fields
// default to "", prices to 0 and slices to empty when the lookup service
// omits them.
type Product struct {
	EAN         string
	Title       string
	UPC         string
	GTIN        string
	ASIN        string
	Description string
	Brand       string
	Model       string
	Dimension   string
	Weight      string
	Category    string
	Currency    string

	LowestPrice  float64
	HighestPrice float64

	Images []string
	Offers []Offer
}

// Offer is a single merchant listing for a product.
type Offer struct {
	Merchant string
	Price    float64
}

// JoinedImages flattens the image URLs into a single delimited string for
// the report and store sinks.
func (p Product) JoinedImages() string {
	return strings.Join(p.Images, ", ")
}

// JoinedOffers flattens the offers into "<merchant> - <price>" pairs.
func (p Product) JoinedOffers() string {
	pairs := make([]string, 0, len(p.Offers))
	for _, o := range p.Offers {
		pairs = append(pairs, o.Merchant+" - "+FormatPrice(o.Price))
	}
	return strings.Join(pairs, ", ")
}

// FormatPrice renders a price without trailing zeros, e.g. 12.5 not 12.50.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
