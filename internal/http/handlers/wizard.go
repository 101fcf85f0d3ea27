// Package handlers exposes the booking wizard to the rendering layer (the
// web widget) as a JSON API. The wizard itself lives in internal/wizard;
// these handlers only bind sessions to HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/booking"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/clinicapi"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/observability/metrics"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/wizard"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/pkg/logging"
)

// Backend is the slice of the clinic API client the wizard handlers use.
type Backend interface {
	wizard.Submitter
	CheckAvailability(ctx context.Context, date, timeSlot string) (*clinicapi.Response[clinicapi.AvailabilityData], error)
	GetAppointmentByCode(ctx context.Context, code string) (*clinicapi.Response[clinicapi.GetAppointmentData], error)
	CheckExistingPatient(ctx context.Context, req clinicapi.CheckPatientRequest) (*clinicapi.Response[clinicapi.CheckPatientData], error)
	GetWebsiteSettings(ctx context.Context) (*clinicapi.Response[clinicapi.WebsiteSettings], error)
}

// WizardHandler manages in-memory wizard sessions. Each session owns one
// controller and one submission coordinator; the handler only routes
// requests to them.
type WizardHandler struct {
	backend     Backend
	logger      *logging.Logger
	metrics     *metrics.BookingMetrics
	clinicName  string
	sessionTTL  time.Duration
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id          string
	controller  *wizard.Controller
	coordinator *wizard.Coordinator
	lastSeen    time.Time

	// mu serializes requests within one session; the flow is single-user
	// but nothing stops a widget from double-firing.
	mu sync.Mutex
}

// NewWizardHandler creates the wizard session handler. Metrics may be nil.
func NewWizardHandler(backend Backend, m *metrics.BookingMetrics, clinicName string, sessionTTL time.Duration, maxSessions int, logger *logging.Logger) *WizardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if sessionTTL <= 0 {
		sessionTTL = 45 * time.Minute
	}
	if maxSessions <= 0 {
		maxSessions = 500
	}
	return &WizardHandler{
		backend:     backend,
		logger:      logger,
		metrics:     m,
		clinicName:  clinicName,
		sessionTTL:  sessionTTL,
		maxSessions: maxSessions,
		sessions:    make(map[string]*session),
	}
}

// Routes mounts the wizard session endpoints.
func (h *WizardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Patch("/record", h.UpdateRecord)
		r.Patch("/medical-history", h.UpdateMedicalHistory)
		r.Post("/advance", h.Advance)
		r.Post("/back", h.Back)
		r.Post("/jump", h.Jump)
		r.Post("/retry", h.Retry)
	})
	r.Get("/options", h.Options)
	r.Get("/availability", h.Availability)
	r.Get("/appointments/{code}", h.AppointmentByCode)
	r.Post("/patients/check", h.CheckPatient)
	r.Get("/website-settings", h.WebsiteSettings)
	return r
}

// sessionView is the JSON shape the widget renders from.
type sessionView struct {
	SessionID  string         `json:"sessionId"`
	ClinicName string         `json:"clinicName"`
	Step       int            `json:"step"`
	StepName   string         `json:"stepName"`
	Record     booking.Record `json:"record"`
	PatientAge int            `json:"patientAge,omitempty"`
	Submission wizard.Outcome `json:"submission"`
}

func (h *WizardHandler) view(s *session) sessionView {
	rec := s.controller.Record()
	return sessionView{
		SessionID:  s.id,
		ClinicName: h.clinicName,
		Step:       int(s.controller.Step()),
		StepName:   s.controller.Step().String(),
		Record:     rec,
		PatientAge: booking.Age(rec.DateOfBirth, time.Now()),
		Submission: s.coordinator.Outcome(),
	}
}

// CreateSession starts a fresh wizard session.
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if len(h.sessions) >= h.maxSessions {
		h.pruneLocked(time.Now())
	}
	if len(h.sessions) >= h.maxSessions {
		h.mu.Unlock()
		http.Error(w, "too many active sessions", http.StatusServiceUnavailable)
		return
	}
	s := &session{
		id:          uuid.NewString(),
		controller:  wizard.NewController(),
		coordinator: wizard.NewCoordinator(h.backend, h.metrics, h.logger),
		lastSeen:    time.Now(),
	}
	h.sessions[s.id] = s
	count := len(h.sessions)
	h.mu.Unlock()

	h.metrics.SetActiveSessions(count)
	h.logger.Info("wizard session created", "session_id", s.id)
	writeJSON(w, http.StatusCreated, h.view(s))
}

// GetSession returns the current state of a session.
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, h.view(s))
}

// DeleteSession tears a session down, aborting any in-flight submission.
func (h *WizardHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	count := len(h.sessions)
	h.mu.Unlock()
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	s.coordinator.Close()
	h.metrics.SetActiveSessions(count)
	h.logger.Info("wizard session deleted", "session_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type recordUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateRecord sets one top-level scalar field of the booking record.
func (h *WizardHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var upd recordUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.controller.SetField(booking.Field(upd.Field), upd.Value)
	writeJSON(w, http.StatusOK, h.view(s))
}

type medicalUpdate struct {
	Field        string `json:"field,omitempty"`
	Value        string `json:"value,omitempty"`
	AllergicItem string `json:"allergicItem,omitempty"`
	Condition    string `json:"condition,omitempty"`
	Checked      bool   `json:"checked,omitempty"`
}

// UpdateMedicalHistory sets one medical history field, allergy checkbox, or
// condition checklist entry.
func (h *WizardHandler) UpdateMedicalHistory(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var upd medicalUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	switch {
	case upd.AllergicItem != "":
		s.controller.SetAllergicItem(upd.AllergicItem, upd.Checked)
	case upd.Condition != "":
		s.controller.SetCondition(upd.Condition, upd.Checked)
	case upd.Field != "":
		s.controller.SetMedicalField(booking.MedicalField(upd.Field), upd.Value)
	default:
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

// Advance moves the session forward one step. Entering the confirmation
// step fires the submission exactly once; advancing past it restarts the
// flow.
func (h *WizardHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wasConfirmation := s.controller.Step() == wizard.StepConfirmation
	step := s.controller.Advance()
	h.metrics.ObserveStep(step.String())
	if wasConfirmation {
		// Confirmation's continue action resets the flow for a new booking.
		s.coordinator.Rearm()
	} else if step == wizard.StepConfirmation {
		s.coordinator.Begin(r.Context(), s.controller.Record())
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

// Back moves the session to the previous step, keeping all entered data.
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.controller.Step()
	step := s.controller.Back()
	h.metrics.ObserveStep(step.String())
	if from == wizard.StepConfirmation && step != wizard.StepConfirmation {
		// Leaving the confirmation screen to edit re-arms the one-shot
		// submission guard for the next entry.
		s.coordinator.Rearm()
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

type jumpRequest struct {
	Step int `json:"step"`
}

// Jump performs one of the explicit "change" jumps to an earlier step.
func (h *WizardHandler) Jump(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	from := s.controller.Step()
	step := s.controller.JumpTo(wizard.StepFor(req.Step))
	h.metrics.ObserveStep(step.String())
	if from == wizard.StepConfirmation && step != wizard.StepConfirmation {
		s.coordinator.Rearm()
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

// Retry re-runs the whole submission sequence after a failure.
func (h *WizardHandler) Retry(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller.Step() != wizard.StepConfirmation {
		http.Error(w, "nothing to retry", http.StatusConflict)
		return
	}
	s.coordinator.Retry(r.Context(), s.controller.Record())
	writeJSON(w, http.StatusOK, h.view(s))
}

// Options returns the fixed option sets the widget renders.
func (h *WizardHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"patientTypes":    []string{booking.PatientTypeNew, booking.PatientTypeExisting},
		"genders":         booking.Genders,
		"civilStatuses":   booking.CivilStatuses,
		"referralSources": booking.ReferralSources,
		"bloodTypes":      booking.BloodTypes,
	})
}

// Availability proxies the backend availability check.
func (h *WizardHandler) Availability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "missing date parameter", http.StatusBadRequest)
		return
	}
	resp, err := h.backend.CheckAvailability(r.Context(), date, r.URL.Query().Get("time"))
	h.proxy(w, resp, err)
}

// AppointmentByCode proxies the backend lookup by appointment code.
func (h *WizardHandler) AppointmentByCode(w http.ResponseWriter, r *http.Request) {
	resp, err := h.backend.GetAppointmentByCode(r.Context(), chi.URLParam(r, "code"))
	h.proxy(w, resp, err)
}

// CheckPatient proxies the backend existing-patient lookup.
func (h *WizardHandler) CheckPatient(w http.ResponseWriter, r *http.Request) {
	var req clinicapi.CheckPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.backend.CheckExistingPatient(r.Context(), req)
	h.proxy(w, resp, err)
}

// WebsiteSettings proxies the tenant branding/content document.
func (h *WizardHandler) WebsiteSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := h.backend.GetWebsiteSettings(r.Context())
	h.proxy(w, resp, err)
}

// HealthCheck reports liveness.
func (h *WizardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StartJanitor prunes idle sessions until ctx is done.
func (h *WizardHandler) StartJanitor(ctx context.Context) {
	interval := h.sessionTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				h.mu.Lock()
				pruned := h.pruneLocked(now)
				count := len(h.sessions)
				h.mu.Unlock()
				h.metrics.SetActiveSessions(count)
				if pruned > 0 {
					h.logger.Info("pruned idle wizard sessions", "count", pruned)
				}
			}
		}
	}()
}

func (h *WizardHandler) pruneLocked(now time.Time) int {
	pruned := 0
	for id, s := range h.sessions {
		if now.Sub(s.lastSeen) > h.sessionTTL {
			s.coordinator.Close()
			delete(h.sessions, id)
			pruned++
		}
	}
	return pruned
}

// session resolves the session from the URL, touching its last-seen time.
// Writes a 404 and returns nil when the session does not exist.
func (h *WizardHandler) session(w http.ResponseWriter, r *http.Request) *session {
	id := chi.URLParam(r, "sessionID")
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil
	}
	s.lastSeen = time.Now()
	return s
}

func (h *WizardHandler) proxy(w http.ResponseWriter, resp any, err error) {
	if err != nil {
		h.logger.Error("backend request failed", "error", err)
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
