package store

import "time"

// Record is one persisted barcode row as read back from the store.
type Record struct {
	SerialCode  string
	EAN         string
	Title       string
	Brand       string
	Category    string
	IsDuplicate bool
	InsertedAt  time.Time
}

// Stats summarizes the store content for the db stats command.
type Stats struct {
	Records       int
	DistinctCodes int
	Duplicates    int
}
