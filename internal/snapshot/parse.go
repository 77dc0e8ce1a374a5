package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wonny/oiwatch/internal/ranking"
)

// Column names of the snapshot table
const (
	ColSymbol             = "symbol"
	ColPrice              = "price"
	ColOpenInterest       = "open_interest"
	ColOIMin3d            = "oi_min_3d"
	ColCircSupply         = "circ_supply"
	ColIncreaseRatio      = "increase_ratio"
	ColIncreaseAmountUSDT = "increase_amount_usdt"
)

var optionalColumns = []string{
	ColOpenInterest,
	ColOIMin3d,
	ColCircSupply,
	ColIncreaseRatio,
	ColIncreaseAmountUSDT,
}

// ParseReport summarises what Parse skipped or degraded
type ParseReport struct {
	Rows           int      `json:"rows"`
	Dropped        int      `json:"dropped"`
	Duplicates     int      `json:"duplicates"`
	InvalidFields  int      `json:"invalid_fields"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// Parse reads a delimited snapshot table.
// Missing symbol or price columns fail the whole table; a row with an empty symbol
// or an unusable price is dropped; bad optional values become absent.
// Duplicate symbols keep their first occurrence.
func Parse(text string) ([]ranking.SymbolRecord, ParseReport, error) {
	var report ParseReport

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, report, fmt.Errorf("%w: empty table", ErrSchemaMismatch)
	}
	if err != nil {
		return nil, report, fmt.Errorf("%w: header: %v", ErrSchemaMismatch, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}

	for _, required := range []string{ColSymbol, ColPrice} {
		if _, ok := cols[required]; !ok {
			return nil, report, fmt.Errorf("%w: missing required column %q", ErrSchemaMismatch, required)
		}
	}
	for _, name := range optionalColumns {
		if _, ok := cols[name]; !ok {
			report.MissingColumns = append(report.MissingColumns, name)
		}
	}

	records := make([]ranking.SymbolRecord, 0, 128)
	seen := make(map[string]bool)

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		report.Rows++

		symbol := strings.TrimSpace(field(row, cols, ColSymbol))
		if symbol == "" {
			report.Dropped++
			continue
		}

		price, ok := parseNumber(field(row, cols, ColPrice))
		if price == nil || *price < 0 {
			if !ok {
				report.InvalidFields++
			}
			report.Dropped++
			continue
		}

		if seen[symbol] {
			report.Duplicates++
			continue
		}
		seen[symbol] = true

		rec := ranking.SymbolRecord{Symbol: symbol, Price: *price}
		optional := []struct {
			col string
			dst **float64
		}{
			{ColOpenInterest, &rec.OpenInterest},
			{ColOIMin3d, &rec.OIMin3d},
			{ColCircSupply, &rec.CircSupply},
			{ColIncreaseRatio, &rec.IncreaseRatio},
			{ColIncreaseAmountUSDT, &rec.IncreaseAmountUSDT},
		}
		for _, o := range optional {
			v, ok := parseNumber(field(row, cols, o.col))
			if !ok {
				report.InvalidFields++
			}
			*o.dst = v
		}

		records = append(records, rec)
	}

	return records, report, nil
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseNumber returns nil for blanks and missing markers.
// ok is false only when the cell held something that is not a finite number.
func parseNumber(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "n/a", "-":
		return nil, true
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, false
	}
	return &v, true
}
