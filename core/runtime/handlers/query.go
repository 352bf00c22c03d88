package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cosmosgate/cosmosgate/core/logger"
	"github.com/cosmosgate/cosmosgate/core/runtime/connectors"
	apperrors "github.com/cosmosgate/cosmosgate/core/shared/errors"
)

// maxQueryBytes is the store-imposed limit on query text size (512 KB).
const maxQueryBytes = 512 * 1024

// defaultErrorMessage is returned when a failure carries no usable message.
const defaultErrorMessage = "Unexpected error inside the query endpoint, please contact the service administrator."

// QueryHandler accepts a JSON body with a query string, executes it against
// the resolved container and returns the result documents as a JSON array.
// It holds no per-request state; concurrent invocations share only the
// thread-safe connector handle.
type QueryHandler struct {
	connector connectors.Connector
	defaults  connectors.Target
	validate  *validator.Validate
	log       *logger.Logger
}

// NewQueryHandler creates a query handler with the given connector and
// default target.
func NewQueryHandler(conn connectors.Connector, defaults connectors.Target) *QueryHandler {
	return &QueryHandler{
		connector: conn,
		defaults:  defaults,
		validate:  validator.New(),
		log:       logger.New("handler:query"),
	}
}

// ServeHTTP implements http.Handler. One attempt per request, no retries;
// every failure is converted into an error response here so nothing
// propagates far enough to crash the process.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Infof("Request: %s %s", r.Method, r.URL.Path)
	start := time.Now()

	req, err := h.parseRequest(r)
	if err != nil {
		// Client errors never reach the store.
		h.writeError(w, err)
		return
	}

	target := h.resolveTarget(req)
	h.log.Debugf("Executing query against %s/%s", target.Database, target.Container)

	results, err := h.connector.Query(r.Context(), target, req.Query)
	observeQuery(time.Since(start), err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// An empty result set is a success, returned as [] rather than an error.
	if results == nil {
		results = make([]map[string]any, 0)
	}

	h.log.Infof("Query returned %d document(s)", len(results))
	h.writeJSON(w, http.StatusOK, results)
}

// parseRequest decodes and validates the request body.
func (h *QueryHandler) parseRequest(r *http.Request) (*QueryRequest, error) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "request body must be a JSON object", err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "missing or empty 'query' field in request body", err)
	}
	if len(req.Query) > maxQueryBytes {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"query text exceeds the store's 512 KB limit", nil).
			WithDetails("query length: " + strconv.Itoa(len(req.Query)) + " bytes")
	}
	return &req, nil
}

// resolveTarget applies request-supplied overrides on top of the
// configuration defaults.
func (h *QueryHandler) resolveTarget(req *QueryRequest) connectors.Target {
	target := h.defaults
	if req.DatabaseID != "" {
		target.Database = req.DatabaseID
	}
	if req.ContainerID != "" {
		target.Container = req.ContainerID
	}
	return target
}

func (h *QueryHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.PrintError("Failed to encode response", err)
	}
}

func (h *QueryHandler) writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusOf(err)

	resp := ErrorResponse{
		Error: defaultErrorMessage,
		Code:  string(apperrors.ErrCodeInternalError),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Code = string(appErr.Code)
		resp.Details = appErr.Details
	}

	if apperrors.IsClientError(err) {
		h.log.Warnf("Rejected request: %v", err)
	} else {
		h.log.PrintError("Query failed", err)
	}
	h.log.Infof("Response: %d", status)
	h.writeJSON(w, status, resp)
}
