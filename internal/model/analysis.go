package model

import "fmt"

// Estimate sources.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// DayRange is an inclusive range of days.
type DayRange struct {
	Min int `json:"min_days"`
	Max int `json:"max_days"`
}

// NewDayRange builds a range, swapping the bounds when needed so Min <= Max.
func NewDayRange(a, b int) DayRange {
	if a > b {
		a, b = b, a
	}
	return DayRange{Min: a, Max: b}
}

// String formats the range as "3-7 days".
func (r DayRange) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d days", r.Min)
	}
	return fmt.Sprintf("%d-%d days", r.Min, r.Max)
}

// AnalysisDisplay holds the presentation strings of an analysis.
type AnalysisDisplay struct {
	Resellable           string `json:"resellable"`
	EstimatedResalePrice string `json:"estimated_resale_price"`
	TimeToSell           string `json:"time_to_sell"`
	EstimatedProfit      string `json:"estimated_profit"`
	Risks                string `json:"risks"`
}

// AnalysisResult is the resale viability estimate for one item.
type AnalysisResult struct {
	Resellable           bool            `json:"resellable"`
	EstimatedResalePrice float64         `json:"estimated_resale_price"`
	TimeToSell           DayRange        `json:"time_to_sell"`
	EstimatedProfit      float64         `json:"estimated_profit"`
	Risks                string          `json:"risks"`
	Source               string          `json:"source"`
	Display              AnalysisDisplay `json:"display"`
}

// AnalyzeResult is the complete answer to an analysis request.
type AnalyzeResult struct {
	ItemData     ItemRecord       `json:"item_data"`
	Analysis     AnalysisResult   `json:"analysis"`
	SimilarItems []ReferenceEntry `json:"similar_items"`
}

// YesNo renders a boolean the way the analysis view shows it.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FormatEuro renders an amount as "€12.50".
func FormatEuro(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}
