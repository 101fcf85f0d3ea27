package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/clinicapi"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/wizard"
)

type fakeBackend struct {
	submitCalls atomic.Int64
	submitResp  *clinicapi.Response[clinicapi.SubmitAppointmentData]
	submitErr   error
}

func (f *fakeBackend) SubmitAppointment(ctx context.Context, _ clinicapi.SubmitAppointmentRequest) (*clinicapi.Response[clinicapi.SubmitAppointmentData], error) {
	f.submitCalls.Add(1)
	return f.submitResp, f.submitErr
}

func (f *fakeBackend) CheckAvailability(ctx context.Context, date, timeSlot string) (*clinicapi.Response[clinicapi.AvailabilityData], error) {
	return &clinicapi.Response[clinicapi.AvailabilityData]{
		Success: true,
		Data:    &clinicapi.AvailabilityData{Date: date, Available: true},
	}, nil
}

func (f *fakeBackend) GetAppointmentByCode(ctx context.Context, code string) (*clinicapi.Response[clinicapi.GetAppointmentData], error) {
	return &clinicapi.Response[clinicapi.GetAppointmentData]{
		Success: true,
		Data: &clinicapi.GetAppointmentData{
			Appointment: clinicapi.AppointmentRecord{AppointmentCode: code},
		},
	}, nil
}

func (f *fakeBackend) CheckExistingPatient(ctx context.Context, req clinicapi.CheckPatientRequest) (*clinicapi.Response[clinicapi.CheckPatientData], error) {
	return &clinicapi.Response[clinicapi.CheckPatientData]{
		Success: true,
		Data:    &clinicapi.CheckPatientData{Exists: false},
	}, nil
}

func (f *fakeBackend) GetWebsiteSettings(ctx context.Context) (*clinicapi.Response[clinicapi.WebsiteSettings], error) {
	return &clinicapi.Response[clinicapi.WebsiteSettings]{
		Success: true,
		Data:    &clinicapi.WebsiteSettings{PrimaryColor: "#0e7490"},
	}, nil
}

func acceptingBackend() *fakeBackend {
	return &fakeBackend{
		submitResp: &clinicapi.Response[clinicapi.SubmitAppointmentData]{
			Success: true,
			Message: "Appointment request received",
			Data: &clinicapi.SubmitAppointmentData{
				Appointment: clinicapi.AppointmentRecord{AppointmentCode: "APT-2025-00042"},
			},
		},
	}
}

func newTestServer(t *testing.T, backend *fakeBackend) *httptest.Server {
	t.Helper()
	h := NewWizardHandler(backend, nil, "Cosmodental", time.Hour, 10, nil)
	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, method, url string, body any) (*http.Response, sessionView) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var view sessionView
	if resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, view
}

func createSession(t *testing.T, server *httptest.Server) sessionView {
	t.Helper()
	resp, view := doRequest(t, http.MethodPost, server.URL+"/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d", resp.StatusCode)
	}
	if view.SessionID == "" {
		t.Fatal("session id missing")
	}
	return view
}

func setField(t *testing.T, server *httptest.Server, sessionID, field, value string) sessionView {
	t.Helper()
	_, view := doRequest(t, http.MethodPatch, server.URL+"/sessions/"+sessionID+"/record",
		map[string]string{"field": field, "value": value})
	return view
}

func fillValidBooking(t *testing.T, server *httptest.Server, sessionID string) {
	t.Helper()
	for field, value := range map[string]string{
		"patientType":  "New",
		"firstName":    "Maria",
		"lastName":     "Santos",
		"mobileNumber": "0917 123 4567",
		"emailAddress": "maria@example.com",
		"selectedDate": "today",
		"selectedTime": "9:00 AM",
	} {
		setField(t, server, sessionID, field, value)
	}
}

func advance(t *testing.T, server *httptest.Server, sessionID string) sessionView {
	t.Helper()
	_, view := doRequest(t, http.MethodPost, server.URL+"/sessions/"+sessionID+"/advance", nil)
	return view
}

func TestCreateSessionStartsAtHome(t *testing.T) {
	server := newTestServer(t, acceptingBackend())
	view := createSession(t, server)

	if view.Step != 0 || view.StepName != "home" {
		t.Fatalf("step = %d (%s), want home", view.Step, view.StepName)
	}
	if view.ClinicName != "Cosmodental" {
		t.Errorf("clinic name = %q", view.ClinicName)
	}
	if view.Submission.State != wizard.StateIdle {
		t.Errorf("submission state = %s, want idle", view.Submission.State)
	}
}

func TestUpdateRecordPersistsAcrossSteps(t *testing.T) {
	server := newTestServer(t, acceptingBackend())
	view := createSession(t, server)

	setField(t, server, view.SessionID, "firstName", "Maria")
	advance(t, server, view.SessionID)
	got := advance(t, server, view.SessionID)

	if got.Record.FirstName != "Maria" {
		t.Fatalf("first name lost after navigation: %q", got.Record.FirstName)
	}
}

func TestAdvanceToConfirmationSubmitsOnce(t *testing.T) {
	backend := acceptingBackend()
	server := newTestServer(t, backend)
	view := createSession(t, server)
	fillValidBooking(t, server, view.SessionID)

	var last sessionView
	for i := 0; i < 6; i++ {
		last = advance(t, server, view.SessionID)
	}
	if last.StepName != "confirmation" {
		t.Fatalf("step = %q, want confirmation", last.StepName)
	}
	if last.Submission.State != wizard.StateSucceeded {
		t.Fatalf("submission = %+v, want succeeded", last.Submission)
	}
	if last.Submission.AppointmentCode != "APT-2025-00042" {
		t.Errorf("appointment code = %q", last.Submission.AppointmentCode)
	}
	if got := backend.submitCalls.Load(); got != 1 {
		t.Fatalf("expected one submission, got %d", got)
	}

	// A repeat GET must not re-submit.
	doRequest(t, http.MethodGet, server.URL+"/sessions/"+view.SessionID+"/", nil)
	if got := backend.submitCalls.Load(); got != 1 {
		t.Fatalf("GET re-submitted: %d calls", got)
	}
}

func TestRetryAfterFailure(t *testing.T) {
	backend := acceptingBackend()
	backend.submitErr = fmt.Errorf("connection refused")
	server := newTestServer(t, backend)
	view := createSession(t, server)
	fillValidBooking(t, server, view.SessionID)

	var last sessionView
	for i := 0; i < 6; i++ {
		last = advance(t, server, view.SessionID)
	}
	if last.Submission.State != wizard.StateFailed {
		t.Fatalf("submission = %+v, want failed", last.Submission)
	}

	backend.submitErr = nil
	_, retried := doRequest(t, http.MethodPost, server.URL+"/sessions/"+view.SessionID+"/retry", nil)
	if retried.Submission.State != wizard.StateSucceeded {
		t.Fatalf("retry outcome = %+v, want succeeded", retried.Submission)
	}
	if got := backend.submitCalls.Load(); got != 2 {
		t.Fatalf("expected two submissions, got %d", got)
	}
}

func TestRetryOutsideConfirmationRejected(t *testing.T) {
	server := newTestServer(t, acceptingBackend())
	view := createSession(t, server)

	resp, _ := doRequest(t, http.MethodPost, server.URL+"/sessions/"+view.SessionID+"/retry", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestBackFromConfirmationRearms(t *testing.T) {
	backend := acceptingBackend()
	server := newTestServer(t, backend)
	view := createSession(t, server)
	fillValidBooking(t, server, view.SessionID)

	for i := 0; i < 6; i++ {
		advance(t, server, view.SessionID)
	}
	doRequest(t, http.MethodPost, server.URL+"/sessions/"+view.SessionID+"/back", nil)
	last := advance(t, server, view.SessionID)

	if last.StepName != "confirmation" {
		t.Fatalf("step = %q, want confirmation", last.StepName)
	}
	if got := backend.submitCalls.Load(); got != 2 {
		t.Fatalf("re-entering confirmation should submit again, got %d calls", got)
	}
}

func TestJumpBackPreservesRecord(t *testing.T) {
	server := newTestServer(t, acceptingBackend())
	view := createSession(t, server)
	setField(t, server, view.SessionID, "selectedDate", "2025-10-02")

	// Walk to patient details (step 4), then jump back to date/time.
	for i := 0; i < 4; i++ {
		advance(t, server, view.SessionID)
	}
	_, jumped := doRequest(t, http.MethodPost, server.URL+"/sessions/"+view.SessionID+"/jump",
		map[string]int{"step": 3})
	if jumped.StepName != "date_time" {
		t.Fatalf("step = %q, want date_time", jumped.StepName)
	}
	if jumped.Record.SelectedDate != "2025-10-02" {
		t.Fatalf("selected date lost: %q", jumped.Record.SelectedDate)
	}
}

func TestUpdateMedicalHistory(t *testing.T) {
	server := newTestServer(t, acceptingBackend())
	view := createSession(t, server)
	url := server.URL + "/sessions/" + view.SessionID + "/medical-history"

	_, got := doRequest(t, http.MethodPatch, url, map[string]any{"field": "hospitalized", "value": "Yes"})
	if got.Record.MedicalHistory.Hospitalized != "Yes" {
		t.Fatalf("hospitalized = %q", got.Record.MedicalHistory.Hospitalized)
	}

	_, got = doRequest(t, http.MethodPatch, url, map[string]any{"allergicItem": "penicillin", "checked": true})
	if !got.Record.MedicalHistory.AllergicItems.Penicillin {
		t.Fatal("penicillin checkbox not set")
	}

	_, got = doRequest(t, http.MethodPatch, url, map[string]any{"condition": "Diabetes", "checked": true})
	if len(got.Record.MedicalHistory.FollowingConditions) != 1 {
		t.Fatalf("conditions = %v", got.Record.MedicalHistory.FollowingConditions)
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	server := newTestServer(t, acceptingBackend())

	resp, _ := doRequest(t, http.MethodGet, server.URL+"/sessions/nope/", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteSession(t *testing.T) {
	server := newTestServer(t, acceptingBackend())
	view := createSession(t, server)

	resp, _ := doRequest(t, http.MethodDelete, server.URL+"/sessions/"+view.SessionID+"/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doRequest(t, http.MethodGet, server.URL+"/sessions/"+view.SessionID+"/", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted session still resolvable: %d", resp.StatusCode)
	}
}

func TestSessionCapacityLimit(t *testing.T) {
	backend := acceptingBackend()
	h := NewWizardHandler(backend, nil, "Cosmodental", time.Hour, 2, nil)
	server := httptest.NewServer(h.Routes())
	defer server.Close()

	createSession(t, server)
	createSession(t, server)
	resp, _ := doRequest(t, http.MethodPost, server.URL+"/sessions", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestOptionsEndpoint(t *testing.T) {
	server := newTestServer(t, acceptingBackend())

	resp, err := http.Get(server.URL + "/options")
	if err != nil {
		t.Fatalf("GET /options: %v", err)
	}
	defer resp.Body.Close()

	var opts map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&opts); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(opts["genders"]) == 0 || len(opts["bloodTypes"]) == 0 {
		t.Fatalf("option sets incomplete: %v", opts)
	}
}

func TestAvailabilityRequiresDate(t *testing.T) {
	server := newTestServer(t, acceptingBackend())

	resp, err := http.Get(server.URL + "/availability")
	if err != nil {
		t.Fatalf("GET /availability: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAvailabilityProxiesBackend(t *testing.T) {
	server := newTestServer(t, acceptingBackend())

	resp, err := http.Get(server.URL + "/availability?date=2025-10-02")
	if err != nil {
		t.Fatalf("GET /availability: %v", err)
	}
	defer resp.Body.Close()

	var envelope clinicapi.Response[clinicapi.AvailabilityData]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	if envelope.Data == nil || !envelope.Data.Available {
		t.Fatalf("availability = %+v", envelope.Data)
	}
}

func TestWebsiteSettingsProxiesBackend(t *testing.T) {
	server := newTestServer(t, acceptingBackend())

	resp, err := http.Get(server.URL + "/website-settings")
	if err != nil {
		t.Fatalf("GET /website-settings: %v", err)
	}
	defer resp.Body.Close()

	var envelope clinicapi.Response[clinicapi.WebsiteSettings]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if envelope.Data == nil || envelope.Data.PrimaryColor != "#0e7490" {
		t.Fatalf("settings = %+v", envelope.Data)
	}
}
