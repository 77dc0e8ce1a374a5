package dashboard

import "strings"

// ChartExchange prefixes every chart instrument id
const ChartExchange = "BINANCE"

// ChartSymbol maps a snapshot symbol to the perpetual-futures chart instrument
func ChartSymbol(symbol string) string {
	return ChartExchange + ":" + cleanSymbol(symbol) + ".P"
}

// ContainerID is the DOM id of a symbol's chart container
func ContainerID(symbol string) string {
	return "tv_" + cleanSymbol(symbol)
}

func cleanSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// WidgetConfig is the JSON handed to TradingView.widget
type WidgetConfig struct {
	Autosize         bool     `json:"autosize"`
	Symbol           string   `json:"symbol"`
	Interval         string   `json:"interval"`
	Timezone         string   `json:"timezone"`
	Theme            string   `json:"theme"`
	Style            string   `json:"style"`
	Locale           string   `json:"locale"`
	EnablePublishing bool     `json:"enable_publishing"`
	HideTopToolbar   bool     `json:"hide_top_toolbar"`
	HideLegend       bool     `json:"hide_legend"`
	SaveImage        bool     `json:"save_image"`
	ContainerID      string   `json:"container_id"`
	Studies          []string `json:"studies"`
	DisabledFeatures []string `json:"disabled_features"`
}

// NewWidgetConfig returns the hourly chart with moving average and open interest studies
func NewWidgetConfig(symbol string) WidgetConfig {
	return WidgetConfig{
		Autosize:       true,
		Symbol:         ChartSymbol(symbol),
		Interval:       "60",
		Timezone:       "Asia/Shanghai",
		Theme:          "light",
		Style:          "1",
		Locale:         "en",
		HideTopToolbar: true,
		ContainerID:    ContainerID(symbol),
		Studies: []string{
			"MASimple@tv-basicstudies",
			"STD;Fund_crypto_open_interest",
		},
		DisabledFeatures: []string{
			"header_symbol_search", "header_compare", "use_localstorage_for_settings",
			"display_market_status", "timeframes_toolbar", "volume_force_overlay",
			"header_chart_type", "header_settings", "header_indicators",
		},
	}
}
