// Package api provides the Polygon reference-data client and the rate-limited
// pager used to download the full ticker list.
//
// REST endpoint:
//   - Production: https://api.polygon.io/v3/reference/tickers
//
// Pagination follows the absolute next_url returned with every page. The
// cursor URL does not carry credentials, so the API key is added back on each
// request. Pages are fetched strictly one after another.
package api
