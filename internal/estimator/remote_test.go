package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"vintelli-api/internal/model"
)

// fakeOpenAI serves /v1/chat/completions with a fixed assistant message.
func fakeOpenAI(t *testing.T, content string, calls *int32, lastReq *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(calls, 1)
		if lastReq != nil {
			_ = json.NewDecoder(r.Body).Decode(lastReq)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  openai.GPT4,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
}

func newTestRemote(t *testing.T, baseURL string) *RemoteEstimator {
	t.Helper()
	est, err := NewRemoteEstimator(RemoteConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL + "/v1",
		Model:       openai.GPT4,
		MaxTokens:   500,
		Temperature: 0.3,
		Timeout:     5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("NewRemoteEstimator: %v", err)
	}
	return est
}

func TestRemoteEstimatorEstimate(t *testing.T) {
	content := "Here is my analysis:\n" + `{
    "resellable": "Yes",
    "estimated_resale_price": "€85",
    "time_to_sell": "5-10 days",
    "estimated_profit": "€-2",
    "risks": "Fakes are common"
}` + "\nGood luck!"

	var calls int32
	var req openai.ChatCompletionRequest
	srv := fakeOpenAI(t, content, &calls, &req)
	defer srv.Close()

	item := model.ItemRecord{Title: "Nike Air Max", Brand: "Nike", Category: "Shoes", Price: model.NewPrice(50)}
	matches := []model.ReferenceEntry{{Title: "Nike Air Max 90 Sneakers", Brand: "Nike", Category: "Shoes", SoldPrice: 85}}

	got, err := newTestRemote(t, srv.URL).Estimate(context.Background(), item, matches)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}
	if req.Model != openai.GPT4 || req.MaxTokens != 500 {
		t.Errorf("request: model=%q max_tokens=%d", req.Model, req.MaxTokens)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, "- Price: €50.00") || !strings.Contains(req.Messages[1].Content, "Nike Air Max 90 Sneakers") {
		t.Errorf("prompt missing item or matches:\n%s", req.Messages[1].Content)
	}

	if !got.Resellable || got.Display.Resellable != "Yes" {
		t.Errorf("resellable: %v / %q", got.Resellable, got.Display.Resellable)
	}
	if got.EstimatedResalePrice != 85 || got.Display.EstimatedResalePrice != "€85" {
		t.Errorf("resale: %.2f / %q", got.EstimatedResalePrice, got.Display.EstimatedResalePrice)
	}
	if got.TimeToSell != (model.DayRange{Min: 5, Max: 10}) || got.Display.TimeToSell != "5-10 days" {
		t.Errorf("time to sell: %+v / %q", got.TimeToSell, got.Display.TimeToSell)
	}
	if got.EstimatedProfit != -2 || got.Display.EstimatedProfit != "€-2" {
		t.Errorf("profit: %.2f / %q, remote display must not be clamped", got.EstimatedProfit, got.Display.EstimatedProfit)
	}
	if got.Risks != "Fakes are common" || got.Source != model.SourceRemote {
		t.Errorf("risks/source: %q / %q", got.Risks, got.Source)
	}
}

func TestRemoteEstimatorBackfillsMissingKeys(t *testing.T) {
	var calls int32
	srv := fakeOpenAI(t, `{"resellable": false, "risks": ["Stains", "Low demand"]}`, &calls, nil)
	defer srv.Close()

	item := model.ItemRecord{Brand: "Nike", Category: "Shoes", Price: model.NewPrice(50)}
	got, err := newTestRemote(t, srv.URL).Estimate(context.Background(), item, nil)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	local := NewLocalEstimator().Compute(item)
	if got.Resellable {
		t.Error("resellable should come from the model")
	}
	if got.Risks != "Stains; Low demand" {
		t.Errorf("risks: %q", got.Risks)
	}
	if got.EstimatedResalePrice != local.EstimatedResalePrice || got.EstimatedProfit != local.EstimatedProfit {
		t.Errorf("amounts not back-filled: got %.2f/%.2f want %.2f/%.2f",
			got.EstimatedResalePrice, got.EstimatedProfit, local.EstimatedResalePrice, local.EstimatedProfit)
	}
	if got.TimeToSell != local.TimeToSell || got.Display.TimeToSell != local.Display.TimeToSell {
		t.Errorf("time to sell not back-filled: %+v", got.TimeToSell)
	}
}

func TestRemoteEstimatorErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "no object", content: "I cannot help with that.", wantErr: ErrNoJSONObject},
		{name: "invalid json", content: `{"resellable": Yes}`},
		{name: "unparseable key", content: `{"estimated_resale_price": "a lot"}`},
		{name: "bad resellable", content: `{"resellable": "maybe"}`},
	}

	item := model.ItemRecord{Brand: "Nike", Price: model.NewPrice(40)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := fakeOpenAI(t, tt.content, &calls, nil)
			defer srv.Close()

			_, err := newTestRemote(t, srv.URL).Estimate(context.Background(), item, nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRemoteEstimatorUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestRemote(t, srv.URL).Estimate(context.Background(), model.ItemRecord{Price: model.NewPrice(10)}, nil)
	if err == nil {
		t.Fatal("expected an error from a failing upstream")
	}
}

func TestRemoteEstimatorTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	est, err := NewRemoteEstimator(RemoteConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Timeout: 100 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("NewRemoteEstimator: %v", err)
	}

	start := time.Now()
	_, err = est.Estimate(context.Background(), model.ItemRecord{Price: model.NewPrice(10)}, nil)
	if err == nil {
		t.Fatal("expected a timeout error from a slow upstream")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Estimate returned after %v, timeout not applied", elapsed)
	}
}

func TestNewRemoteEstimatorRequiresKey(t *testing.T) {
	if _, err := NewRemoteEstimator(RemoteConfig{}, nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("got %v, want ErrMissingAPIKey", err)
	}
}

func TestBuildPromptAbsentFields(t *testing.T) {
	prompt, err := buildPrompt(model.ItemRecord{Title: "Scarf"}, nil)
	if err != nil {
		t.Fatalf("buildPrompt: %v", err)
	}
	for _, want := range []string{"- Title: Scarf", "- Price: €N/A", "- Brand: N/A", "[]"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDecodeAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`"€85"`, 85},
		{`"€45,50"`, 45.50},
		{`"€1,200"`, 1200},
		{`"€1.200,50"`, 1200.50},
		{`"€1,200.50"`, 1200.50},
		{`"€12,345,678"`, 12345678},
		{`"€1.234.567"`, 1234567},
		{`"€1.200"`, 1.20},
		{`"-€3.20"`, -3.20},
		{`"€-3"`, -3},
		{`"about 20 euros"`, 20},
		{`12.5`, 12.5},
	}

	for _, tt := range tests {
		got, _, err := decodeAmount(json.RawMessage(tt.raw))
		if err != nil {
			t.Errorf("decodeAmount(%s): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("decodeAmount(%s) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}
