package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"vintelli-api/internal/model"
)

const systemPrompt = "You are an expert in fashion reselling and market analysis. Provide accurate, data-driven insights for Vinted resellers."

const promptTemplate = `A user wants to buy this item on Vinted and resell it. Based on the following product data and a comparison dataset, determine:

1. Is this item suitable for reselling? (Yes/No)
2. Estimated resale price (in euros)
3. Estimated time to resell (in days)
4. Estimated profit (resale price - original price - estimated shipping + fees)
5. Potential risks or downsides

Here is the item data:
- Title: %s
- Price: €%s
- Brand: %s
- Size: %s
- Category: %s
- Condition: %s

Here is the comparison dataset of recently sold similar items:
%s

Please provide your analysis in the following JSON format:
{
    "resellable": "Yes/No",
    "estimated_resale_price": "€XX",
    "time_to_sell": "X-X days",
    "estimated_profit": "€XX",
    "risks": "Brief risk summary"
}
`

// Response keys.
const (
	keyResellable = "resellable"
	keyResale     = "estimated_resale_price"
	keyTimeToSell = "time_to_sell"
	keyProfit     = "estimated_profit"
	keyRisks      = "risks"
)

var (
	// ErrNoCompletion is returned when the model answers with no choices.
	ErrNoCompletion = errors.New("no completion returned")
	// ErrNoJSONObject is returned when the completion holds no JSON object.
	ErrNoJSONObject = errors.New("no JSON object in completion")
	// ErrMissingAPIKey is returned by NewRemoteEstimator without a key.
	ErrMissingAPIKey = errors.New("openai api key is required")
)

var (
	jsonObjectRegexp = regexp.MustCompile(`(?s)\{.*\}`)
	amountRegexp     = regexp.MustCompile(`(-)?\s*€?\s*(-)?\s*(\d+(?:[.,]\d+)*)`)
	dayRangeRegexp   = regexp.MustCompile(`(\d+)\s*(?:-|–|to)\s*(\d+)`)
	daysRegexp       = regexp.MustCompile(`(\d+)`)
)

// RemoteConfig holds settings for RemoteEstimator.
type RemoteConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// RemoteEstimator asks an OpenAI chat model for the estimate. Keys the model
// omits are filled in from the local estimate.
type RemoteEstimator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	local       *LocalEstimator
}

// NewRemoteEstimator creates a RemoteEstimator. local supplies back-fill
// values; a new LocalEstimator is used when it is nil.
func NewRemoteEstimator(cfg RemoteConfig, local *LocalEstimator) (*RemoteEstimator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if local == nil {
		local = NewLocalEstimator()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &RemoteEstimator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		local:       local,
	}, nil
}

// Model returns the configured chat model name.
func (e *RemoteEstimator) Model() string {
	return e.model
}

// Estimate implements Estimator. It issues exactly one chat completion.
func (e *RemoteEstimator) Estimate(ctx context.Context, item model.ItemRecord, matches []model.ReferenceEntry) (model.AnalysisResult, error) {
	prompt, err := buildPrompt(item, matches)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.AnalysisResult{}, ErrNoCompletion
	}
	log.Printf("[RemoteEstimator] Completion from %s in %v (%d tokens)", e.model, time.Since(start), resp.Usage.TotalTokens)

	return parseCompletion(resp.Choices[0].Message.Content, e.local.Compute(item))
}

func buildPrompt(item model.ItemRecord, matches []model.ReferenceEntry) (string, error) {
	if matches == nil {
		matches = []model.ReferenceEntry{}
	}
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode matches: %w", err)
	}

	price := "N/A"
	if item.HasPrice() {
		price = strconv.FormatFloat(item.PriceOrZero(), 'f', 2, 64)
	}

	return fmt.Sprintf(promptTemplate,
		orNA(item.Title), price, orNA(item.Brand), orNA(item.Size),
		orNA(item.Category), orNA(item.Condition), data), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// parseCompletion decodes the outermost JSON object in content. Missing keys
// take their value from fallback; present keys that cannot be interpreted
// are an error.
func parseCompletion(content string, fallback model.AnalysisResult) (model.AnalysisResult, error) {
	raw := jsonObjectRegexp.FindString(content)
	if raw == "" {
		return model.AnalysisResult{}, ErrNoJSONObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("invalid completion JSON: %w", err)
	}

	res := fallback
	res.Source = model.SourceRemote

	if v, ok := fields[keyResellable]; ok {
		b, display, err := decodeBool(v)
		if err != nil {
			return model.AnalysisResult{}, fmt.Errorf("%s: %w", keyResellable, err)
		}
		res.Resellable, res.Display.Resellable = b, display
	}
	if v, ok := fields[keyResale]; ok {
		amount, display, err := decodeAmount(v)
		if err != nil {
			return model.AnalysisResult{}, fmt.Errorf("%s: %w", keyResale, err)
		}
		res.EstimatedResalePrice, res.Display.EstimatedResalePrice = amount, display
	}
	if v, ok := fields[keyTimeToSell]; ok {
		days, display, err := decodeDays(v)
		if err != nil {
			return model.AnalysisResult{}, fmt.Errorf("%s: %w", keyTimeToSell, err)
		}
		res.TimeToSell, res.Display.TimeToSell = days, display
	}
	if v, ok := fields[keyProfit]; ok {
		amount, display, err := decodeAmount(v)
		if err != nil {
			return model.AnalysisResult{}, fmt.Errorf("%s: %w", keyProfit, err)
		}
		res.EstimatedProfit, res.Display.EstimatedProfit = amount, display
	}
	if v, ok := fields[keyRisks]; ok {
		risks, err := decodeRisks(v)
		if err != nil {
			return model.AnalysisResult{}, fmt.Errorf("%s: %w", keyRisks, err)
		}
		res.Risks, res.Display.Risks = risks, risks
	}

	return res, nil
}

func decodeBool(raw json.RawMessage) (bool, string, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, model.YesNo(b), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, "", fmt.Errorf("unexpected value %s", raw)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "oui":
		return true, s, nil
	case "no", "false", "non":
		return false, s, nil
	}
	return false, "", fmt.Errorf("unexpected value %q", s)
}

func decodeAmount(raw json.RawMessage) (float64, string, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return model.RoundCents(f), model.FormatEuro(f), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, "", fmt.Errorf("unexpected value %s", raw)
	}
	m := amountRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, "", fmt.Errorf("no amount in %q", s)
	}
	v, err := strconv.ParseFloat(normalizeAmount(m[3]), 64)
	if err != nil {
		return 0, "", fmt.Errorf("bad amount %q: %w", s, err)
	}
	if m[1] != "" || m[2] != "" {
		v = -v
	}
	return model.RoundCents(v), s, nil
}

// normalizeAmount rewrites a digit run such as "1.200,50" or "1,200" into
// the form strconv expects. With both separators present the later one is
// the decimal mark. A lone separator followed by groups of exactly three
// digits is a thousands separator when it is a comma or repeats.
func normalizeAmount(s string) string {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if thousandsGrouped(s, ",") {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1 && thousandsGrouped(s, "."):
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

func thousandsGrouped(s, sep string) bool {
	parts := strings.Split(s, sep)
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return len(parts) > 1
}

func decodeDays(raw json.RawMessage) (model.DayRange, string, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil && n >= 0 {
		r := model.NewDayRange(n, n)
		return r, r.String(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.DayRange{}, "", fmt.Errorf("unexpected value %s", raw)
	}
	if m := dayRangeRegexp.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return model.NewDayRange(lo, hi), s, nil
	}
	if m := daysRegexp.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		return model.NewDayRange(d, d), s, nil
	}
	return model.DayRange{}, "", fmt.Errorf("no day count in %q", s)
}

func decodeRisks(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; "), nil
	}
	return "", fmt.Errorf("unexpected value %s", raw)
}

var _ Estimator = (*RemoteEstimator)(nil)
