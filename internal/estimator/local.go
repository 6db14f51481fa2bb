package estimator

import (
	"context"
	"math"
	"strings"

	"vintelli-api/internal/model"
)

// Cost model.
const (
	ShippingCost    = 5.00
	PlatformFeeRate = 0.05

	defaultMultiplier   = 1.3
	resellableMinProfit = 5.0
	resellableMinMult   = 1.2
	lowMarginProfit     = 10.0
)

// DefaultRisk is reported when no specific risk applies.
const DefaultRisk = "Standard resale market risks"

type brandMultiplier struct {
	keyword    string
	multiplier float64
}

// brandMultipliers is matched in order against the lowercased brand.
var brandMultipliers = []brandMultiplier{
	{"ralph lauren", 1.8},
	{"nike", 1.6},
	{"adidas", 1.5},
	{"levi", 1.4},
	{"converse", 1.4},
	{"zara", 1.4},
	{"mango", 1.3},
	{"uniqlo", 1.3},
	{"pull&bear", 1.2},
	{"bershka", 1.2},
	{"h&m", 1.2},
}

type categoryAdjustment struct {
	keywords []string
	factor   float64
	seasonal bool
}

var categoryAdjustments = []categoryAdjustment{
	{keywords: []string{"shoes", "sneakers", "boots", "chaussures"}, factor: 1.10},
	{keywords: []string{"jeans", "denim", "pants", "trousers", "pantalon"}, factor: 1.05},
	{keywords: []string{"dress", "robe"}, factor: 0.90, seasonal: true},
}

// LocalEstimator computes a deterministic estimate from brand and category
// heuristics. It never fails and ignores the matches.
type LocalEstimator struct{}

// NewLocalEstimator creates a LocalEstimator.
func NewLocalEstimator() *LocalEstimator {
	return &LocalEstimator{}
}

// Estimate implements Estimator.
func (e *LocalEstimator) Estimate(_ context.Context, item model.ItemRecord, _ []model.ReferenceEntry) (model.AnalysisResult, error) {
	return e.Compute(item), nil
}

// Compute returns the heuristic estimate for item. An absent price counts
// as 0.
func (e *LocalEstimator) Compute(item model.ItemRecord) model.AnalysisResult {
	price := item.PriceOrZero()
	mult := multiplierFor(item.Brand)
	adj := adjustmentFor(item.Category)

	cost := price + ShippingCost + price*PlatformFeeRate
	resale := model.RoundCents(price * mult * adj.factor)
	profit := model.RoundCents(resale - cost)

	var timeToSell model.DayRange
	switch {
	case mult > 1.5:
		timeToSell = model.NewDayRange(3, 7)
	case mult > 1.3:
		timeToSell = model.NewDayRange(7, 14)
	default:
		timeToSell = model.NewDayRange(14, 30)
	}

	var risks []string
	if mult < 1.3 {
		risks = append(risks, "Low brand recognition")
	}
	if adj.seasonal {
		risks = append(risks, "Seasonal demand")
	}
	if profit < lowMarginProfit {
		risks = append(risks, "Low profit margin")
	}
	riskText := DefaultRisk
	if len(risks) > 0 {
		riskText = strings.Join(risks, "; ")
	}

	resellable := profit > resellableMinProfit && mult > resellableMinMult

	return model.AnalysisResult{
		Resellable:           resellable,
		EstimatedResalePrice: resale,
		TimeToSell:           timeToSell,
		EstimatedProfit:      profit,
		Risks:                riskText,
		Source:               model.SourceLocal,
		Display: model.AnalysisDisplay{
			Resellable:           model.YesNo(resellable),
			EstimatedResalePrice: model.FormatEuro(resale),
			TimeToSell:           timeToSell.String(),
			EstimatedProfit:      model.FormatEuro(math.Max(0, profit)),
			Risks:                riskText,
		},
	}
}

func multiplierFor(brand string) float64 {
	b := strings.ToLower(brand)
	if b == "" {
		return defaultMultiplier
	}
	for _, m := range brandMultipliers {
		if strings.Contains(b, m.keyword) {
			return m.multiplier
		}
	}
	return defaultMultiplier
}

func adjustmentFor(category string) categoryAdjustment {
	c := strings.ToLower(category)
	for _, a := range categoryAdjustments {
		for _, kw := range a.keywords {
			if strings.Contains(c, kw) {
				return a
			}
		}
	}
	return categoryAdjustment{factor: 1}
}

var _ Estimator = (*LocalEstimator)(nil)
