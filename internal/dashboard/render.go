// Package dashboard renders a board view as the HTML card grid.
package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/wonny/oiwatch/internal/board"
	"github.com/wonny/oiwatch/internal/profile"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultWidgetHeight is the chart height in pixels
const DefaultWidgetHeight = 450

// Card is one ranked contract prepared for display
type Card struct {
	Rank      int
	Symbol    string
	HasRatio  bool
	Ratio     string
	Delta     string
	DeltaUp   bool
	Supply    string
	MarketCap string
	Widget    WidgetConfig
}

// PageData is the template input
type PageData struct {
	Title        string
	Active       string
	Profiles     []profile.Profile
	View         *board.View
	Cards        []Card
	FetchedAt    string
	WidgetHeight int
}

// Renderer executes the board template
type Renderer struct {
	tmpl         *template.Template
	widgetHeight int
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/board.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, widgetHeight: DefaultWidgetHeight}, nil
}

// Render writes the page for view
func (r *Renderer) Render(w io.Writer, view *board.View, profiles *profile.File) error {
	data := PageData{
		Title:        title(view),
		Active:       view.Profile.Name,
		Profiles:     profiles.Profiles,
		View:         view,
		Cards:        Cards(view),
		FetchedAt:    view.FetchedAt.Format(time.RFC3339),
		WidgetHeight: r.widgetHeight,
	}

	if err := r.tmpl.ExecuteTemplate(w, "board.html", data); err != nil {
		return fmt.Errorf("render board: %w", err)
	}
	return nil
}

// Cards converts the view's ranked items into display cards
func Cards(view *board.View) []Card {
	cards := make([]Card, 0, len(view.Items))
	for _, item := range view.Items {
		rec := item.Record
		supply := 0.0
		if rec.CircSupply != nil {
			supply = *rec.CircSupply
		}
		ratio := ""
		if rec.IncreaseRatio != nil {
			ratio = FormatPct(*rec.IncreaseRatio)
		}

		cards = append(cards, Card{
			Rank:      item.Rank,
			Symbol:    rec.Symbol,
			HasRatio:  rec.IncreaseRatio != nil,
			Ratio:     ratio,
			Delta:     SignedMoney(item.Derived.OIDeltaValue),
			DeltaUp:   item.Derived.OIDeltaValue >= 0,
			Supply:    FormatMoney(supply),
			MarketCap: FormatMoney(item.Derived.MarketCap),
			Widget:    NewWidgetConfig(rec.Symbol),
		})
	}
	return cards
}

func title(view *board.View) string {
	if view.Profile.Title != "" {
		return "OI Watch: " + view.Profile.Title
	}
	return "OI Watch"
}
