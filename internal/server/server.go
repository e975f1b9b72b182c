// Package server exposes the evaluation engine over HTTP: POST a prediction
// CSV (optionally with YAML parameter overrides) and receive the full report
// as JSON.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/fraud-metrics/internal/config"
	"github.com/iwvelando/fraud-metrics/internal/evaluation"
	"github.com/iwvelando/fraud-metrics/pkg/constants"
	"github.com/iwvelando/fraud-metrics/pkg/dataset"
	"github.com/iwvelando/fraud-metrics/pkg/series"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	defaults      *config.Configuration
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the evaluation API.
// The provided configuration supplies defaults that individual requests may
// override.
func NewHandler(logger *zap.Logger, defaults *config.Configuration, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults == nil {
		defaults = config.DefaultConfiguration()
	}

	maxUploadSize := defaults.Server.MaxUploadBytes
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, defaults: defaults, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Evaluation API endpoint (CSV upload)
	mux.HandleFunc("/api/evaluate", h.handleEvaluate)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type evaluationResponse struct {
	Records           int                 `json:"records"`
	DecisionThreshold float64             `json:"decisionThreshold"`
	Metrics           metricsPayload      `json:"metrics"`
	Cost              costPayload         `json:"cost"`
	Sweep             []thresholdPayload  `json:"sweep,omitempty"`
	Best              *thresholdPayload   `json:"best,omitempty"`
	RiskBands         []bandPayload       `json:"riskBands,omitempty"`
	AmountBuckets     []bucketPayload     `json:"amountBuckets,omitempty"`
	HourlyPatterns    []hourlyPayload     `json:"hourlyPatterns,omitempty"`
	Warnings          []string            `json:"warnings,omitempty"`
	Duration          string              `json:"duration"`
	ConfigYAML        string              `json:"configYaml,omitempty"`
}

type metricsPayload struct {
	TruePositives  int     `json:"truePositives"`
	FalsePositives int     `json:"falsePositives"`
	TrueNegatives  int     `json:"trueNegatives"`
	FalseNegatives int     `json:"falseNegatives"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	Accuracy       float64 `json:"accuracy"`
	F1             float64 `json:"f1"`
}

type costPayload struct {
	FalsePositive float64 `json:"falsePositive"`
	FalseNegative float64 `json:"falseNegative"`
	Total         float64 `json:"total"`
}

type thresholdPayload struct {
	Threshold      float64 `json:"threshold"`
	TotalCost      float64 `json:"totalCost"`
	TruePositives  int     `json:"truePositives"`
	FalsePositives int     `json:"falsePositives"`
	TrueNegatives  int     `json:"trueNegatives"`
	FalseNegatives int     `json:"falseNegatives"`
}

type bandPayload struct {
	Band            string  `json:"band"`
	Transactions    int     `json:"transactions"`
	ActualFraud     int     `json:"actualFraud"`
	FraudPercentage float64 `json:"fraudPercentage"`
}

type bucketPayload struct {
	Range           string  `json:"range"`
	Transactions    int     `json:"transactions"`
	ActualFraud     int     `json:"actualFraud"`
	FraudPercentage float64 `json:"fraudPercentage"`
}

type hourlyPayload struct {
	Hour         int     `json:"hour"`
	Transactions int     `json:"transactions"`
	ActualFraud  int     `json:"actualFraud"`
	FraudRate    float64 `json:"fraudRate"`
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing prediction file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleEvaluate"),
				zap.Error(closeErr),
			)
		}
	}()

	conf := *h.defaults
	if overrides := strings.TrimSpace(r.FormValue("config")); overrides != "" {
		parsed, err := config.LoadConfigurationFromReader(strings.NewReader(overrides))
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		parsed.Server = conf.Server
		conf = *parsed
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read prediction file: %v", err))
		return
	}

	ds, err := dataset.Read(&buf, conf.DatasetColumns())
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	warnings := conf.ValidateConfiguration()

	report, err := evaluation.Run(r.Context(), h.logger, ds, &conf)
	if err != nil {
		status := http.StatusInternalServerError
		var mismatch *series.LengthMismatchError
		if errors.As(err, &mismatch) {
			status = http.StatusBadRequest
		}
		h.respondError(w, status, err.Error())
		return
	}

	elapsed := time.Since(start)

	h.logger.Info("evaluation served",
		zap.String("op", "server.handleEvaluate"),
		zap.Int("records", report.Records),
		zap.Duration("duration", elapsed),
	)

	response := buildResponse(report, warnings, elapsed)
	if encoded, err := yaml.Marshal(conf); err != nil {
		h.logger.Warn("failed to marshal effective configuration",
			zap.String("op", "server.handleEvaluate"),
			zap.Error(err),
		)
	} else {
		response.ConfigYAML = string(encoded)
	}

	h.writeJSON(w, http.StatusOK, response)
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

func buildResponse(report *evaluation.Report, warnings []string, elapsed time.Duration) evaluationResponse {
	response := evaluationResponse{
		Records:           report.Records,
		DecisionThreshold: report.DecisionThreshold,
		Metrics: metricsPayload{
			TruePositives:  report.Metrics.Matrix.TP,
			FalsePositives: report.Metrics.Matrix.FP,
			TrueNegatives:  report.Metrics.Matrix.TN,
			FalseNegatives: report.Metrics.Matrix.FN,
			Precision:      report.Metrics.Precision,
			Recall:         report.Metrics.Recall,
			Accuracy:       report.Metrics.Accuracy,
			F1:             report.Metrics.F1,
		},
		Cost: costPayload{
			FalsePositive: report.Cost.FalsePositive,
			FalseNegative: report.Cost.FalseNegative,
			Total:         report.TotalCost,
		},
		Warnings: warnings,
		Duration: elapsed.String(),
	}

	for _, result := range report.Sweep {
		response.Sweep = append(response.Sweep, thresholdPayload{
			Threshold:      result.Threshold,
			TotalCost:      result.TotalCost,
			TruePositives:  result.Matrix.TP,
			FalsePositives: result.Matrix.FP,
			TrueNegatives:  result.Matrix.TN,
			FalseNegatives: result.Matrix.FN,
		})
	}
	if report.Best != nil {
		best := thresholdPayload{
			Threshold:      report.Best.Threshold,
			TotalCost:      report.Best.TotalCost,
			TruePositives:  report.Best.Matrix.TP,
			FalsePositives: report.Best.Matrix.FP,
			TrueNegatives:  report.Best.Matrix.TN,
			FalseNegatives: report.Best.Matrix.FN,
		}
		response.Best = &best
	}

	for _, band := range report.RiskBands {
		response.RiskBands = append(response.RiskBands, bandPayload{
			Band:            string(band.Band),
			Transactions:    band.Transactions,
			ActualFraud:     band.ActualFraud,
			FraudPercentage: band.FraudPercentage,
		})
	}
	for _, bucket := range report.AmountBuckets {
		response.AmountBuckets = append(response.AmountBuckets, bucketPayload{
			Range:           bucket.Label,
			Transactions:    bucket.Transactions,
			ActualFraud:     bucket.ActualFraud,
			FraudPercentage: bucket.FraudPercentage,
		})
	}
	for _, stat := range report.HourlyPatterns {
		response.HourlyPatterns = append(response.HourlyPatterns, hourlyPayload{
			Hour:         stat.Hour,
			Transactions: stat.Transactions,
			ActualFraud:  stat.ActualFraud,
			FraudRate:    stat.FraudRate,
		})
	}

	return response
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.logger.Error("evaluation request failed",
		zap.String("op", "server.handleEvaluate"),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
