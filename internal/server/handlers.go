package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rshade/carbonlens/internal/analytics"
	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/recommend"
	"github.com/rshade/carbonlens/internal/scenario"
	"github.com/rshade/carbonlens/internal/store"
)

// analyticsPrecision is the number of decimal places in analytics output.
const analyticsPrecision = 2

type simulateRequest struct {
	Input   carbon.FootprintInput `json:"input"`
	Actions []scenario.Action     `json:"actions"`
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type recommendationsResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

type footprintsResponse struct {
	Footprints []store.FootprintRecord `json:"footprints"`
}

type analyticsResponse struct {
	UserID        string                `json:"user_id"`
	Summary       analytics.Summary     `json:"summary"`
	Trend         analytics.Trend       `json:"trend"`
	Equivalencies analytics.Equivalency `json:"equivalencies"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "CarbonLens API is running"})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.draining.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "draining"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "Calculate"

	var input carbon.FootprintInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, op, err)
		return
	}

	breakdown, err := s.calculate(op, input)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "Simulate"

	var req simulateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	if err := req.Input.Validate(); err != nil {
		s.writeError(w, r, op, err)
		return
	}

	result, err := s.sim.Simulate(req.Input, req.Actions)
	s.metrics.observeOperation(op, err)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "Rank"

	var input carbon.FootprintInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	s.rank(w, r, input)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	const op = "CreateUser"

	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, op, err)
		return
	}

	u, err := s.store.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, "GetUser", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleSaveFootprint(w http.ResponseWriter, r *http.Request) {
	const op = "SaveFootprint"
	userID := chi.URLParam(r, "userID")

	// Reject unknown users before doing any work.
	if _, err := s.store.GetUser(r.Context(), userID); err != nil {
		s.writeError(w, r, op, err)
		return
	}

	var input carbon.FootprintInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, r, op, err)
		return
	}

	breakdown, err := s.calculate(op, input)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}

	rec, err := s.store.SaveFootprint(r.Context(), userID, input, breakdown)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListFootprints(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListFootprints(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, "ListFootprints", err)
		return
	}
	writeJSON(w, http.StatusOK, footprintsResponse{Footprints: recs})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	recs, err := s.store.ListFootprints(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, "Analytics", err)
		return
	}

	summary := analytics.Summarize(recs)
	writeJSON(w, http.StatusOK, analyticsResponse{
		UserID:        userID,
		Summary:       summary.Rounded(analyticsPrecision),
		Trend:         analytics.ComputeTrend(recs).Rounded(analyticsPrecision),
		Equivalencies: analytics.Equivalencies(summary.LatestTotal),
	})
}

func (s *Server) handleUserRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "Rank"
	userID := chi.URLParam(r, "userID")

	recs, err := s.store.ListFootprints(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	if len(recs) == 0 {
		s.writeError(w, r, op, newAPIError(http.StatusNotFound, codeNoFootprints,
			fmt.Sprintf("user %s has no recorded footprints", userID), nil))
		return
	}
	s.rank(w, r, recs[len(recs)-1].Input)
}

func (s *Server) rank(w http.ResponseWriter, r *http.Request, input carbon.FootprintInput) {
	const op = "Rank"
	if err := input.Validate(); err != nil {
		s.writeError(w, r, op, err)
		return
	}

	recs, err := s.ranker.Rank(input)
	s.metrics.observeOperation(op, err)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{Recommendations: recs})
}

// calculate validates input and computes its breakdown.
func (s *Server) calculate(op string, input carbon.FootprintInput) (carbon.EmissionBreakdown, error) {
	if err := input.Validate(); err != nil {
		return carbon.EmissionBreakdown{}, err
	}
	breakdown, err := s.calc.Calculate(input)
	s.metrics.observeOperation(op, err)
	if err != nil {
		return carbon.EmissionBreakdown{}, err
	}
	s.metrics.observeFootprint(breakdown.Total)
	return breakdown, nil
}

// decodeJSON reads a single JSON value of at most maxRequestBody bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return newAPIError(http.StatusBadRequest, codeInvalidJSON, "reading request body", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return newAPIError(http.StatusBadRequest, codeInvalidJSON, "request body is empty", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, carbon.ErrInvalidAction) {
			return err
		}
		return newAPIError(http.StatusBadRequest, codeInvalidJSON, "invalid JSON body", err)
	}
	if dec.More() {
		return newAPIError(http.StatusBadRequest, codeInvalidJSON, "request body must contain a single JSON value", nil)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes the error envelope. Server errors are logged with the
// request ID; their details never reach the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code, message := classify(err)

	id := w.Header().Get(requestIDHeader)
	if id == "" {
		id = requestID(r)
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error().
			Str("request_id", id).
			Str("operation", op).
			Str("error_code", code).
			Err(err).
			Msg("request failed")
	}

	writeJSON(w, status, errorResponse{Error: code, Message: message, RequestID: id})
}
