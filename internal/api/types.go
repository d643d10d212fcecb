package api

// TickersResponse from GET /v3/reference/tickers
type TickersResponse struct {
	Results   []APITicker `json:"results"`
	Status    string      `json:"status"`
	RequestID string      `json:"request_id"`
	Count     int         `json:"count"`
	NextURL   string      `json:"next_url"`
}

// APITicker represents a ticker from the Polygon reference API.
type APITicker struct {
	Ticker          string  `json:"ticker"`
	Name            *string `json:"name"`
	Market          *string `json:"market"`
	Locale          *string `json:"locale"`
	PrimaryExchange *string `json:"primary_exchange"`
	Type            *string `json:"type"`
	Active          *bool   `json:"active"`
	CurrencyName    *string `json:"currency_name"`
	CIK             *string `json:"cik"`
	CompositeFIGI   *string `json:"composite_figi"`
	ShareClassFIGI  *string `json:"share_class_figi"`

	// Timestamps (ISO 8601)
	LastUpdatedUTC *string `json:"last_updated_utc"`
}
