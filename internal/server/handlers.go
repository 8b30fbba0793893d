package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/combicalc/internal/combin"
	"github.com/agbru/combicalc/internal/logging"
	"github.com/agbru/combicalc/internal/service"
	"github.com/agbru/combicalc/pkg/models"
)

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
	})
}

// handleCounters returns the names of the registered counters.
func (s *Server) handleCounters(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.CountersResponse{Counters: s.service.Counters()})
}

// handleCount serves GET /count?n=&k=[&counter=].
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	q := r.URL.Query()
	n, k, err := parseSpaceParams(q)
	if err != nil {
		s.writeParamError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	resp, err := s.service.Count(ctx, q.Get("counter"), n, k)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// handleRank serves GET /rank?n=&k=&combination=i,j,....
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	q := r.URL.Query()
	n, k, err := parseSpaceParams(q)
	if err != nil {
		s.writeParamError(w, err)
		return
	}
	raw, present := q["combination"]
	if !present && k > 0 {
		s.writeParamError(w, queryParamError{Message: "Missing 'combination' parameter", StatusCode: http.StatusBadRequest})
		return
	}
	var c combin.Combination
	if present {
		if c, err = combin.ParseCombination(raw[0]); err != nil {
			s.writeServiceError(w, err)
			return
		}
	} else {
		c = combin.Combination{}
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	resp, err := s.service.Rank(ctx, n, k, c)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// handleUnrank serves GET /unrank?n=&k=&rank=.
func (s *Server) handleUnrank(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	q := r.URL.Query()
	n, k, err := parseSpaceParams(q)
	if err != nil {
		s.writeParamError(w, err)
		return
	}
	rank, err := parseRankParam(q)
	if err != nil {
		s.writeParamError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	resp, err := s.service.Unrank(ctx, n, k, rank)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// handlePartition serves GET /partition?n=&k=&workers=.
func (s *Server) handlePartition(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	q := r.URL.Query()
	n, k, err := parseSpaceParams(q)
	if err != nil {
		s.writeParamError(w, err)
		return
	}
	workers, err := parseIntParam(q, "workers")
	if err != nil {
		s.writeParamError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	plan, err := s.service.Partition(ctx, n, k, workers)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, plan)
}

// requestContext bounds a request by the configured request timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
}

// requireGet writes 405 and returns false for any method other than GET.
func (s *Server) requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	s.writeErrorResponse(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "Method not allowed")
	return false
}

// parseSpaceParams extracts n and k from the query.
func parseSpaceParams(q url.Values) (n, k int, err error) {
	if n, err = parseIntParam(q, "n"); err != nil {
		return 0, 0, err
	}
	if k, err = parseIntParam(q, "k"); err != nil {
		return 0, 0, err
	}
	return n, k, nil
}

// parseIntParam parses a required nonnegative integer query parameter.
// strconv.Atoi rejects values that overflow int, so oversize inputs surface
// as a parse error rather than wrapping around.
func parseIntParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, queryParamError{
			Message:    fmt.Sprintf("Missing '%s' parameter", name),
			StatusCode: http.StatusBadRequest,
		}
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, queryParamError{
			Message:    fmt.Sprintf("Invalid '%s' parameter: must be a nonnegative integer", name),
			StatusCode: http.StatusBadRequest,
		}
	}
	return v, nil
}

// parseRankParam parses the decimal rank, which may exceed any fixed width.
// Negative ranks parse here and are rejected by the engine as out of range.
func parseRankParam(q url.Values) (*big.Int, error) {
	raw := strings.TrimSpace(q.Get("rank"))
	if raw == "" {
		return nil, queryParamError{Message: "Missing 'rank' parameter", StatusCode: http.StatusBadRequest}
	}
	rank, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, queryParamError{
			Message:    "Invalid 'rank' parameter: must be a decimal integer",
			StatusCode: http.StatusBadRequest,
		}
	}
	return rank, nil
}

// writeParamError writes a parameter parsing error.
func (s *Server) writeParamError(w http.ResponseWriter, err error) {
	var pe queryParamError
	if errors.As(err, &pe) {
		s.writeErrorResponse(w, pe.StatusCode, codeBadRequest, pe.Message)
		return
	}
	s.writeErrorResponse(w, http.StatusBadRequest, codeBadRequest, err.Error())
}

// writeServiceError maps engine and service errors to HTTP responses.
// Input errors become 400 with a machine-readable code, an expired request
// budget becomes 504, and anything else is a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLimitExceeded):
		s.writeErrorResponse(w, http.StatusBadRequest, codeLimitExceeded, err.Error())
	case errors.Is(err, combin.ErrInvalidCombination):
		s.writeErrorResponse(w, http.StatusBadRequest, codeInvalidCombination, err.Error())
	case errors.Is(err, combin.ErrOutOfRange):
		s.writeErrorResponse(w, http.StatusBadRequest, codeOutOfRange, err.Error())
	case errors.Is(err, combin.ErrInvalidArgument):
		s.writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, http.StatusGatewayTimeout, http.StatusText(http.StatusGatewayTimeout), "Request timed out")
	default:
		s.logger.Error("request failed", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), "Internal error")
	}
}

// writeJSONResponse writes data as JSON with the given status code.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", err, logging.Int("status", statusCode))
	}
}

// writeErrorResponse writes a standardized error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{Error: code, Message: message})
}
