package view

import (
	"encoding/json"
	"fmt"
	"time"

	"assetview/pkg/types/assets"
)

const (
	ChartTitle  = "Price History (Last 30 Days)"
	ChartSeries = "Price"
	BackLabel   = "Back to List"
)

// ChartPoint is what the chart component receives per day. Label and Tooltip
// are preformatted so the client side does no number or date formatting.
type ChartPoint struct {
	Date     time.Time `json:"date"`
	PriceUsd string    `json:"priceUsd"`
	Label    string    `json:"label"`
	Tooltip  string    `json:"tooltip"`
}

type Chart struct {
	Title  string       `json:"title"`
	Series string       `json:"series"`
	Points []ChartPoint `json:"points"`
}

// PointsJSON is the point array as a JSON string for embedding in a template.
func (c Chart) PointsJSON() string {
	data, err := json.Marshal(c.Points)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Detail is the fully formatted loaded view.
type Detail struct {
	ID        string
	Title     string
	Name      string
	Symbol    string
	Rank      string
	Price     string
	MarketCap string
	Volume24h string
	Supply    string
	Chart     Chart
}

// LastN returns a copy of the last n points, keeping their order.
func LastN(history []assets.HistoryPoint, n int) []assets.HistoryPoint {
	if n <= 0 {
		return []assets.HistoryPoint{}
	}
	start := 0
	if len(history) > n {
		start = len(history) - n
	}
	out := make([]assets.HistoryPoint, len(history)-start)
	copy(out, history[start:])
	return out
}

func NewDetail(vm *assets.ViewModel, f *Formatter) Detail {
	a := vm.Asset
	return Detail{
		ID:        a.ID,
		Title:     fmt.Sprintf("%s (%s)", a.Name, a.Symbol),
		Name:      a.Name,
		Symbol:    a.Symbol,
		Rank:      f.Rank(a.Rank),
		Price:     f.Price(a.PriceUsd),
		MarketCap: f.USD(a.MarketCapUsd),
		Volume24h: f.USD(a.VolumeUsd24Hr),
		Supply:    f.Integer(a.Supply) + " " + a.Symbol,
		Chart:     NewChart(vm.History, f),
	}
}

func NewChart(history []assets.HistoryPoint, f *Formatter) Chart {
	window := LastN(history, assets.HistoryWindow)
	points := make([]ChartPoint, 0, len(window))
	for _, p := range window {
		points = append(points, ChartPoint{
			Date:     p.Date,
			PriceUsd: p.PriceUsd,
			Label:    f.Date(p.Date),
			Tooltip:  f.Price(p.PriceUsd),
		})
	}
	return Chart{
		Title:  ChartTitle,
		Series: ChartSeries,
		Points: points,
	}
}
