// cmd/search-service/handlers.go
package main

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"compare-engine/internal/common/errors"
	"compare-engine/internal/common/logger"
	"compare-engine/internal/common/observability"
	"compare-engine/internal/common/validation"
	"compare-engine/internal/engine"
	"compare-engine/internal/engine/filter"
	"compare-engine/internal/engine/record"
	"compare-engine/internal/engine/sorting"
)

const maxBodySize = 1 << 20

type api struct {
	engine *engine.Engine
	obs    *observability.Observability
	logger logger.Logger
}

func newAPI(eng *engine.Engine, obs *observability.Observability, log logger.Logger) *api {
	return &api{engine: eng, obs: obs, logger: log}
}

type filterSortRequest struct {
	Category string           `json:"category"`
	Records  []record.Product `json:"records"`
	Criteria filter.Criteria  `json:"criteria"`
	Sort     sorting.Spec     `json:"sort"`
}

type compareRequest struct {
	Records []record.Product `json:"records"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// handleSearch serves GET /search?q=term.
func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	started := time.Now()
	term := r.URL.Query().Get("q")

	response, err := a.engine.Search(r.Context(), term)
	status := "ok"
	if err != nil {
		status = "error"
	}
	a.obs.RecordSearch(r.Context(), status)
	a.obs.RecordSearchDuration(r.Context(), time.Since(started), status)

	if err != nil {
		a.logger.Error("Search failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// handleFilterSort serves POST /filter-sort.
func (a *api) handleFilterSort(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readValidated(w, r, validation.ValidateFilterSortRequest)
	if !ok {
		return
	}

	var req filterSortRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	records, err := a.engine.FilterAndSort(req.Category, req.Records, req.Criteria, req.Sort)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeUnknownCategory) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("Filter and sort failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "filter and sort failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// handleCompare serves POST /compare.
func (a *api) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readValidated(w, r, validation.ValidateCompareRequest)
	if !ok {
		return
	}

	var req compareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	report, err := a.engine.Compare(req.Records)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeInvalidComparisonInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("Comparison failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "comparison failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readValidated reads a POST body and runs it through the given schema
// check, writing the error response itself when validation fails.
func (a *api) readValidated(w http.ResponseWriter, r *http.Request, check func([]byte) (*validation.ValidationResult, error)) ([]byte, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	result, err := check(body)
	if err != nil {
		a.logger.Error("Request validation errored", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "validation failed to run")
		return nil, false
	}
	if !result.Valid {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "invalid request",
			Details: result.Errors,
		})
		return nil, false
	}

	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
