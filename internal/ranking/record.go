// Package ranking turns an open-interest snapshot into a filtered, ranked and paged view.
package ranking

// SymbolRecord is one row of a snapshot: a single futures contract at capture time.
// Optional columns are nil when the snapshot does not carry them.
type SymbolRecord struct {
	Symbol             string   `json:"symbol"`
	Price              float64  `json:"price"`
	OpenInterest       *float64 `json:"open_interest,omitempty"`
	OIMin3d            *float64 `json:"oi_min_3d,omitempty"`
	CircSupply         *float64 `json:"circ_supply,omitempty"`
	IncreaseRatio      *float64 `json:"increase_ratio,omitempty"`
	IncreaseAmountUSDT *float64 `json:"increase_amount_usdt,omitempty"`
}

// DerivedMetrics are computed at view time and never stored
type DerivedMetrics struct {
	OIDeltaValue float64 `json:"oi_delta_value"`
	MarketCap    float64 `json:"market_cap"`
}

// Ranked is a record with its 1-based position in the final order
type Ranked struct {
	Rank    int            `json:"rank"`
	Record  SymbolRecord   `json:"record"`
	Derived DerivedMetrics `json:"derived"`
}

// Derive computes the derived metrics of r. It is total: missing inputs yield 0.
// The OI delta prefers open_interest/oi_min_3d over the precomputed increase amount.
func Derive(r SymbolRecord) DerivedMetrics {
	var d DerivedMetrics

	switch {
	case r.OpenInterest != nil && r.OIMin3d != nil:
		d.OIDeltaValue = (*r.OpenInterest - *r.OIMin3d) * r.Price
	case r.IncreaseAmountUSDT != nil:
		d.OIDeltaValue = *r.IncreaseAmountUSDT
	}

	if r.CircSupply != nil {
		d.MarketCap = *r.CircSupply * r.Price
	}

	return d
}

// Float returns a pointer to v. Handy for building records by hand.
func Float(v float64) *float64 {
	return &v
}
