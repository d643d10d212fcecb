package model

// Batch accumulates the tickers fetched during one run, preserving the order
// pages were received in and the order of records within each page.
// A Batch belongs to a single run and is not safe for concurrent use.
type Batch struct {
	records []Ticker
	pages   int
}

// NewBatch returns an empty batch with room for capacity records.
func NewBatch(capacity int) *Batch {
	return &Batch{records: make([]Ticker, 0, capacity)}
}

// Append adds one page of records to the end of the batch.
// An empty page still counts as a page.
func (b *Batch) Append(page []Ticker) {
	b.records = append(b.records, page...)
	b.pages++
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.records)
}

// Pages returns the number of pages appended so far.
func (b *Batch) Pages() int {
	if b == nil {
		return 0
	}
	return b.pages
}

// Records returns a copy of the accumulated records.
func (b *Batch) Records() []Ticker {
	if b == nil {
		return nil
	}
	out := make([]Ticker, len(b.records))
	copy(out, b.records)
	return out
}
