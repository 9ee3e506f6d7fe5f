// Package server exposes coverage checking over HTTP using fasthttp.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_question_coverage/internal/adapters/transcript"
	"github.com/baditaflorin/go_question_coverage/internal/ports"
	"github.com/baditaflorin/go_question_coverage/pkg/coverage"
)

// DefaultBatchTimeout bounds a single batch request.
const DefaultBatchTimeout = 60 * time.Second

// CoverageRequest asks for the coverage of a plain-text transcript.
type CoverageRequest struct {
	Transcript string   `json:"transcript"`
	Required   []string `json:"required" validate:"required"`
	Threshold  *float64 `json:"threshold,omitempty"`
}

// SegmentsRequest asks for the coverage of a segmented transcript.
type SegmentsRequest struct {
	Language  string               `json:"language,omitempty"`
	Segments  []transcript.Segment `json:"segments" validate:"required,dive"`
	Required  []string             `json:"required" validate:"required"`
	Threshold *float64             `json:"threshold,omitempty"`
	Speakers  []string             `json:"speakers,omitempty"`
}

// BatchRequest asks for the coverage of several transcripts.
type BatchRequest struct {
	Items     []coverage.BatchItem `json:"items" validate:"required,dive"`
	Required  []string             `json:"required" validate:"required"`
	Threshold *float64             `json:"threshold,omitempty"`
}

// NormalizeRequest asks for the tokens of a text.
type NormalizeRequest struct {
	Text string `json:"text"`
}

// CoverageResponse is a coverage report with request metadata.
type CoverageResponse struct {
	coverage.Report
	Threshold      float64 `json:"threshold"`
	ProcessingTime string  `json:"processing_time,omitempty"`
}

// BatchResponse holds one report per batch item.
type BatchResponse struct {
	Results        []coverage.BatchResult `json:"results"`
	Threshold      float64                `json:"threshold"`
	ProcessingTime string                 `json:"processing_time,omitempty"`
}

// NormalizeResponse holds the tokens of a text.
type NormalizeResponse struct {
	Tokens []string `json:"tokens"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler routes and serves coverage requests.
type Handler struct {
	checker   *coverage.Checker
	logger    ports.Logger
	validator *validator.Validate
	now       func() time.Time
}

// NewHandler creates a handler backed by checker.
func NewHandler(checker *coverage.Checker, logger ports.Logger) *Handler {
	return &Handler{
		checker:   checker,
		logger:    logger,
		validator: validator.New(),
		now:       time.Now,
	}
}

// HandleRequest is the fasthttp request handler.
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	startTime := h.now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "CoverageServer")

	switch string(ctx.Path()) {
	case "/health":
		h.handleHealthCheck(ctx)
	case "/normalize":
		h.handleNormalize(ctx)
	case "/coverage":
		h.handleCoverage(ctx, startTime)
	case "/coverage/segments":
		h.handleSegments(ctx, startTime)
	case "/coverage/batch":
		h.handleBatch(ctx, startTime)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		h.writeJSONError(ctx, "Not found")
	}

	h.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

func (h *Handler) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   h.now().Format(time.RFC3339),
	})
}

func (h *Handler) handleNormalize(ctx *fasthttp.RequestCtx) {
	var req NormalizeRequest
	if !h.decodePost(ctx, &req) {
		return
	}

	tokens := h.checker.Normalize(req.Text)
	if tokens == nil {
		tokens = []string{}
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, NormalizeResponse{Tokens: tokens})
}

func (h *Handler) handleCoverage(ctx *fasthttp.RequestCtx, startTime time.Time) {
	var req CoverageRequest
	if !h.decodePost(ctx, &req) {
		return
	}

	threshold := h.threshold(req.Threshold)
	report := h.checker.CheckWithThreshold(req.Transcript, req.Required, threshold)

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, CoverageResponse{
		Report:         report,
		Threshold:      threshold,
		ProcessingTime: time.Since(startTime).String(),
	})
}

func (h *Handler) handleSegments(ctx *fasthttp.RequestCtx, startTime time.Time) {
	var req SegmentsRequest
	if !h.decodePost(ctx, &req) {
		return
	}

	doc := &transcript.Document{Language: req.Language, Segments: req.Segments}
	threshold := h.threshold(req.Threshold)
	report := h.checker.CheckWithThreshold(doc.Text(req.Speakers...), req.Required, threshold)

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, CoverageResponse{
		Report:         report,
		Threshold:      threshold,
		ProcessingTime: time.Since(startTime).String(),
	})
}

func (h *Handler) handleBatch(ctx *fasthttp.RequestCtx, startTime time.Time) {
	var req BatchRequest
	if !h.decodePost(ctx, &req) {
		return
	}

	c, cancel := context.WithTimeout(context.Background(), DefaultBatchTimeout)
	defer cancel()

	threshold := h.threshold(req.Threshold)
	results, err := h.checker.CheckBatch(c, req.Items, req.Required, &threshold)
	if err != nil {
		h.logger.Error("Batch coverage failed", "error", err)
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		h.writeJSONError(ctx, "Batch coverage failed: "+err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, BatchResponse{
		Results:        results,
		Threshold:      threshold,
		ProcessingTime: time.Since(startTime).String(),
	})
}

// decodePost enforces POST, decodes the JSON body into req and validates it.
// It writes the error response and returns false on failure.
func (h *Handler) decodePost(ctx *fasthttp.RequestCtx, req interface{}) bool {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return false
	}

	if err := json.Unmarshal(ctx.PostBody(), req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return false
	}

	if err := h.validator.Struct(req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+validationMessage(err))
		return false
	}
	return true
}

func (h *Handler) threshold(requested *float64) float64 {
	if requested == nil {
		return h.checker.Threshold()
	}
	return *requested
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+" failed on "+fe.Tag())
	}
	return strings.Join(msgs, "; ")
}

// writeJSONResponse writes a JSON response to the context
func (h *Handler) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON response", "error", err)
		h.writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (h *Handler) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		h.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}
