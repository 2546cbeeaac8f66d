package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tabscan/tabscan/internal/calculator"
	"github.com/tabscan/tabscan/internal/middleware"
	"github.com/tabscan/tabscan/internal/models"
	"github.com/tabscan/tabscan/internal/obs"
	"github.com/tabscan/tabscan/internal/storage"
)

// SplitService handles split computation and session persistence.
type SplitService struct {
	store    storage.Store
	opts     calculator.Options
	metrics  *obs.Metrics
	validate *validator.Validate
}

// NewSplitService creates a SplitService. metrics may be nil (tests).
func NewSplitService(store storage.Store, opts calculator.Options, metrics *obs.Metrics) *SplitService {
	return &SplitService{
		store:    store,
		opts:     opts,
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the split endpoints. The stateless compute endpoint
// is public; everything touching storage requires authentication.
func (s *SplitService) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/v1/split", s.ComputeSplit)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/v1/sessions", s.CreateSession)
		r.Get("/v1/sessions/{sessionID}", s.GetSession)
		r.Delete("/v1/sessions/{sessionID}", s.DeleteSession)
		r.Get("/v1/sessions/{sessionID}/settlements", s.ListSettlements)
	})
}

type lineItemRequest struct {
	Name       string   `json:"name" validate:"required"`
	Quantity   int      `json:"quantity" validate:"min=0"`
	Amount     float64  `json:"amount" validate:"min=0"`
	AssignedTo []string `json:"assigned_to"`
}

type sessionRequest struct {
	Title        string            `json:"title"`
	Participants []string          `json:"participants" validate:"unique"`
	PayerID      string            `json:"payer_id"`
	EnteredTotal float64           `json:"entered_total" validate:"gt=0"`
	Items        []lineItemRequest `json:"items" validate:"dive"`
}

type settlementResponse struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Amount      float64 `json:"amount"`
	Explanation string  `json:"explanation"`
}

type warningResponse struct {
	Code            string   `json:"code"`
	Message         string   `json:"message"`
	Allocated       *float64 `json:"allocated,omitempty"`
	Expected        *float64 `json:"expected,omitempty"`
	VariancePct     *float64 `json:"variance_pct,omitempty"`
	UnassignedCount *int     `json:"unassigned_count,omitempty"`
}

type splitResponse struct {
	SessionID   string               `json:"session_id,omitempty"`
	Title       string               `json:"title,omitempty"`
	Settlements []settlementResponse `json:"settlements"`
	Warnings    []warningResponse    `json:"warnings"`
}

// ComputeSplit runs the settlement engine without persisting anything.
func (s *SplitService) ComputeSplit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSessionRequest(w, r)
	if !ok {
		return
	}

	session := req.toSession("")
	result, err := s.compute(session)
	if err != nil {
		writeSplitError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSplitResponse("", "", result))
}

// CreateSession computes and persists a session with its settlements.
// Nothing is stored when the engine rejects the input.
func (s *SplitService) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	req, ok := s.decodeSessionRequest(w, r)
	if !ok {
		return
	}

	session := req.toSession(userID)
	result, err := s.compute(session)
	if err != nil {
		writeSplitError(w, err)
		return
	}

	if err := s.store.CreateSession(r.Context(), session); err != nil {
		slog.Error("CreateSession failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to store session")
		return
	}
	if err := s.store.ReplaceSettlements(r.Context(), session.ID, toStoredSettlements(session.ID, result)); err != nil {
		slog.Error("CreateSession: failed to store settlements", "session_id", session.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to store settlements")
		return
	}

	slog.Info("Session created",
		"session_id", session.ID,
		"participants", len(session.Participants),
		"settlements", len(result.Settlements),
		"user_id", userID,
	)
	respondJSON(w, http.StatusCreated, toSplitResponse(session.ID, session.Title, result))
}

// GetSession returns a stored session with freshly recomputed settlements.
func (s *SplitService) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}

	result, err := s.compute(session)
	if err != nil {
		// Stored sessions passed validation once; thresholds may have
		// tightened since.
		writeSplitError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSplitResponse(session.ID, session.Title, result))
}

// ListSettlements returns the settlements stored for a session.
func (s *SplitService) ListSettlements(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}

	settlements, err := s.store.ListSettlementsBySession(r.Context(), session.ID)
	if err != nil {
		slog.Error("ListSettlements failed", "session_id", session.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to list settlements")
		return
	}

	out := make([]settlementResponse, 0, len(settlements))
	for _, st := range settlements {
		out = append(out, settlementResponse{
			From:        st.FromID,
			To:          st.ToID,
			Amount:      st.Amount.Float(),
			Explanation: st.Explanation,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"settlements": out})
}

// DeleteSession removes a session and its settlements.
func (s *SplitService) DeleteSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadOwnedSession(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteSession(r.Context(), session.ID); err != nil {
		slog.Error("DeleteSession failed", "session_id", session.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *SplitService) decodeSessionRequest(w http.ResponseWriter, r *http.Request) (*sessionRequest, bool) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed_json", "request body is not valid JSON")
		return nil, false
	}
	if err := s.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	return &req, true
}

// loadOwnedSession fetches the session from the URL and enforces that the
// caller created it.
func (s *SplitService) loadOwnedSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := s.store.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "session not found")
		} else {
			slog.Error("GetSession failed", "session_id", sessionID, "error", err)
			respondError(w, http.StatusInternalServerError, "internal", "failed to load session")
		}
		return nil, false
	}
	if session.CreatedBy != middleware.GetUserID(r.Context()) {
		respondError(w, http.StatusForbidden, "forbidden", "you did not create this session")
		return nil, false
	}
	return session, true
}

// compute runs the engine and records metrics.
func (s *SplitService) compute(session *models.Session) (*calculator.Result, error) {
	result, err := calculator.ComputeSplits(session, s.opts)
	if s.metrics != nil {
		if err != nil {
			s.metrics.SplitsComputed.WithLabelValues("failed").Inc()
		} else if len(result.Warnings) > 0 {
			s.metrics.SplitsComputed.WithLabelValues("warned").Inc()
			for _, warning := range result.Warnings {
				s.metrics.WarningsEmitted.WithLabelValues(string(warning.Code)).Inc()
			}
		} else {
			s.metrics.SplitsComputed.WithLabelValues("ok").Inc()
		}
	}
	return result, err
}

func (req *sessionRequest) toSession(createdBy string) *models.Session {
	items := make([]models.LineItem, len(req.Items))
	for i, item := range req.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items[i] = models.LineItem{
			Name:       item.Name,
			Quantity:   quantity,
			Amount:     models.CentsFromFloat(item.Amount),
			AssignedTo: models.ParseAssignment(item.AssignedTo),
		}
	}
	return &models.Session{
		Title:        req.Title,
		Participants: req.Participants,
		PayerID:      req.PayerID,
		EnteredTotal: models.CentsFromFloat(req.EnteredTotal),
		Items:        items,
		CreatedBy:    createdBy,
	}
}

func toStoredSettlements(sessionID string, result *calculator.Result) []*models.Settlement {
	out := make([]*models.Settlement, len(result.Settlements))
	for i, st := range result.Settlements {
		out[i] = &models.Settlement{
			SessionID:   sessionID,
			FromID:      st.FromID,
			ToID:        st.ToID,
			Amount:      st.Amount,
			Explanation: st.Explanation,
		}
	}
	return out
}

func toSplitResponse(sessionID, title string, result *calculator.Result) splitResponse {
	settlements := make([]settlementResponse, 0, len(result.Settlements))
	for _, st := range result.Settlements {
		settlements = append(settlements, settlementResponse{
			From:        st.FromID,
			To:          st.ToID,
			Amount:      st.Amount.Float(),
			Explanation: st.Explanation,
		})
	}

	warnings := make([]warningResponse, 0, len(result.Warnings))
	for _, warning := range result.Warnings {
		wr := warningResponse{Code: string(warning.Code), Message: warning.Message}
		switch warning.Code {
		case calculator.WarnTotalVariance:
			allocated := warning.Allocated.Float()
			expected := warning.Expected.Float()
			pct := warning.VariancePct
			wr.Allocated = &allocated
			wr.Expected = &expected
			wr.VariancePct = &pct
		case calculator.WarnUnassignedItems:
			count := warning.UnassignedCount
			wr.UnassignedCount = &count
		}
		warnings = append(warnings, wr)
	}

	return splitResponse{
		SessionID:   sessionID,
		Title:       title,
		Settlements: settlements,
		Warnings:    warnings,
	}
}

// writeSplitError maps engine errors onto HTTP responses. All of them mean
// the input cannot produce a consistent split, so they are 422s.
func writeSplitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calculator.ErrNoParticipants):
		respondError(w, http.StatusUnprocessableEntity, "no_participants", err.Error())
	case errors.Is(err, calculator.ErrNoItems):
		respondError(w, http.StatusUnprocessableEntity, "no_items", err.Error())
	default:
		var payerErr *calculator.InvalidPayerError
		if errors.As(err, &payerErr) {
			respondError(w, http.StatusUnprocessableEntity, "invalid_payer", err.Error())
			return
		}
		var mismatch *calculator.TotalMismatchError
		if errors.As(err, &mismatch) {
			respondError(w, http.StatusUnprocessableEntity, "totals_do_not_match", err.Error())
			return
		}
		slog.Error("ComputeSplits failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "split computation failed")
	}
}
