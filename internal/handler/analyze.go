package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"vintelli-api/internal/model"
	"vintelli-api/internal/service"
	"vintelli-api/pkg/apierror"
	"vintelli-api/pkg/response"
)

// maxAnalyzeBody caps the request body of an analyze call.
const maxAnalyzeBody = 64 << 10

// AnalyzeHandler handles listing analysis requests.
type AnalyzeHandler struct {
	analyzer *service.AnalyzerService
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer *service.AnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// Analyze handles POST /analyze and POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.Error(w, apierror.BadRequest("No URL provided"))
			return
		}
		response.Error(w, apierror.BadRequest("Invalid JSON body"))
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

// ReferenceResponse lists the dataset used for matching.
type ReferenceResponse struct {
	Count   int                    `json:"count"`
	Entries []model.ReferenceEntry `json:"entries"`
}

// Reference handles GET /api/v1/reference
func (h *AnalyzeHandler) Reference(w http.ResponseWriter, r *http.Request) {
	entries := h.analyzer.ReferenceEntries()
	response.OK(w, ReferenceResponse{
		Count:   len(entries),
		Entries: entries,
	})
}
