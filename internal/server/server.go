package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/internal/metrics"
	"github.com/iwvelando/maintenance-budget/internal/report"
	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// RequestIDHeader carries the identifier assigned to each evaluation.
const RequestIDHeader = "X-Request-ID"

const evaluateSchema = `{
  "type": "object",
  "required": ["grossArea", "capacity", "constructionYear", "annualRevenue"],
  "additionalProperties": false,
  "properties": {
    "grossArea": {"type": "number"},
    "capacity": {"type": "integer"},
    "constructionYear": {"type": "integer"},
    "annualRevenue": {"type": "number"},
    "equipment": {"type": "array", "items": {"type": "string"}, "uniqueItems": true},
    "variant": {"type": "string", "enum": ["compact", "detailed"]}
  }
}`

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	schema      *gojsonschema.Schema
}

// NewHandler constructs the HTTP handler that serves the web UI, the
// evaluation API and Prometheus metrics.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(evaluateSchema))
	if err != nil {
		panic(fmt.Sprintf("failed to compile evaluate schema: %v", err))
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion, schema: schema}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/evaluate", h.handleEvaluate)
	mux.HandleFunc("/api/equipment", h.handleEquipment)
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.Handle("/metrics", promhttp.Handler())

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

type evaluateRequest struct {
	GrossArea        float64  `json:"grossArea"`
	Capacity         int      `json:"capacity"`
	ConstructionYear int      `json:"constructionYear"`
	AnnualRevenue    float64  `json:"annualRevenue"`
	Equipment        []string `json:"equipment"`
	Variant          string   `json:"variant"`
}

type evaluateResponse struct {
	RequestID string              `json:"requestId"`
	Input     budget.AssetInput   `json:"input"`
	Result    budget.BudgetResult `json:"result"`
	Split     budget.CostSplit    `json:"split"`
	Report    report.Report       `json:"report"`
	Duration  string              `json:"duration"`
}

type errorResponse struct {
	Error     string   `json:"error"`
	Field     string   `json:"field,omitempty"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	requestID := uuid.NewString()
	w.Header().Set(RequestIDHeader, requestID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error:     fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize),
				RequestID: requestID,
			}, op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error:     fmt.Sprintf("failed to read request: %v", err),
			RequestID: requestID,
		}, op)
		return
	}

	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error:     fmt.Sprintf("failed to decode request: %v", err),
			RequestID: requestID,
		}, op)
		return
	}
	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			details[i] = desc.String()
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error:     "request does not match the evaluate schema",
			Details:   details,
			RequestID: requestID,
		}, op)
		return
	}

	var req evaluateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error:     fmt.Sprintf("failed to decode request: %v", err),
			RequestID: requestID,
		}, op)
		return
	}

	equipment, err := budget.ParseEquipment(req.Equipment)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error:     err.Error(),
			Field:     "equipment",
			RequestID: requestID,
		}, op)
		return
	}

	variant, err := report.ParseVariant(req.Variant)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error:     err.Error(),
			Field:     "variant",
			RequestID: requestID,
		}, op)
		return
	}

	in := budget.AssetInput{
		GrossArea:        req.GrossArea,
		Capacity:         req.Capacity,
		ConstructionYear: req.ConstructionYear,
		AnnualRevenue:    req.AnnualRevenue,
		Equipment:        equipment,
	}

	res, err := budget.Evaluate(in)
	metrics.Observe(metrics.SurfaceHTTP, err, res.IsCritical, time.Since(start))
	if err != nil {
		resp := errorResponse{Error: err.Error(), RequestID: requestID}
		var invalid *budget.InvalidInputError
		if errors.As(err, &invalid) {
			resp.Field = invalid.Field
		}
		h.respondErrorWithOp(w, statusFor(err), resp, op)
		return
	}

	h.logger.Debug("evaluated budget",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.Float64("totalBudget", res.TotalBudget),
		zap.Bool("critical", res.IsCritical),
	)

	h.writeJSON(w, http.StatusOK, evaluateResponse{
		RequestID: requestID,
		Input:     in,
		Result:    res,
		Split:     res.Split(in.AnnualRevenue),
		Report:    report.Build(in, res, variant),
		Duration:  time.Since(start).String(),
	})
}

type equipmentResponse struct {
	Equipment []budget.EquipmentRate `json:"equipment"`
}

func (h *handler) handleEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, equipmentResponse{Equipment: budget.Catalog()})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// statusFor maps calculator errors to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, budget.ErrInvalidInput) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, resp errorResponse, op string) {
	h.logger.Error("evaluate request failed",
		zap.String("op", op),
		zap.String("requestId", resp.RequestID),
		zap.Int("status", status),
		zap.String("error", resp.Error),
	)

	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
