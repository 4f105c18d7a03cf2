package lookup

import "github.com/tidwall/gjson"

// normalizeItem maps one raw item from the lookup response onto a Product.
// The response schema belongs to the external service, so every field name
// it exposes is referenced here and nowhere else. Missing fields fall back
// to gjson's zero values, which match the Product defaults.
func normalizeItem(item gjson.Result) Product {
	p := Product{
		EAN:          item.Get("ean").String(),
		Title:        item.Get("title").String(),
		UPC:          item.Get("upc").String(),
		GTIN:         item.Get("gtin").String(),
		ASIN:         item.Get("asin").String(),
		Description:  item.Get("description").String(),
		Brand:        item.Get("brand").String(),
		Model:        item.Get("model").String(),
		Dimension:    item.Get("dimension").String(),
		Weight:       item.Get("weight").String(),
		Category:     item.Get("category").String(),
		Currency:     item.Get("currency").String(),
		LowestPrice:  item.Get("lowest_recorded_price").Float(),
		HighestPrice: item.Get("highest_recorded_price").Float(),
	}

	for _, img := range item.Get("images").Array() {
		if s := img.String(); s != "" {
			p.Images = append(p.Images, s)
		}
	}
	for _, offer := range item.Get("offers").Array() {
		p.Offers = append(p.Offers, Offer{
			Merchant: offer.Get("merchant").String(),
			Price:    offer.Get("price").Float(),
		})
	}
	return p
}
