// Package clinicapi is a typed client for the clinic backend's public
// appointment endpoints. Every response uses the same success/failure
// envelope; business failures come back as typed envelopes while transport
// and decode problems surface as Go errors.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/obaidullah11/DentalClinicManagement-clientportal/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// Client talks to the clinic backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the backend base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a clinic backend API client.
func NewClient(logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitAppointment posts a composed booking to the backend.
func (c *Client) SubmitAppointment(ctx context.Context, req SubmitAppointmentRequest) (*Response[SubmitAppointmentData], error) {
	c.logger.Info("submitting appointment request",
		"patient_type", req.Patient.PatientType,
		"selected_date", req.Appointment.SelectedDate,
		"selected_time", req.Appointment.SelectedTime,
	)
	var out Response[SubmitAppointmentData]
	if err := do(ctx, c, http.MethodPost, "/public/appointments/submit", req, &out); err != nil {
		return nil, err
	}
	c.logger.Info("appointment submission response",
		"success", out.Success,
		"message", out.Message,
	)
	return &out, nil
}

// CheckAvailability queries whether a date (and optionally a time) is open.
func (c *Client) CheckAvailability(ctx context.Context, date, timeSlot string) (*Response[AvailabilityData], error) {
	params := url.Values{}
	params.Set("date", date)
	if timeSlot != "" {
		params.Set("time", timeSlot)
	}
	var out Response[AvailabilityData]
	if err := do(ctx, c, http.MethodGet, "/public/appointments/availability?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAppointmentByCode fetches a previously submitted appointment.
func (c *Client) GetAppointmentByCode(ctx context.Context, code string) (*Response[GetAppointmentData], error) {
	var out Response[GetAppointmentData]
	if err := do(ctx, c, http.MethodGet, "/public/appointments/code/"+url.PathEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckExistingPatient looks up a patient by email and/or mobile number.
func (c *Client) CheckExistingPatient(ctx context.Context, req CheckPatientRequest) (*Response[CheckPatientData], error) {
	var out Response[CheckPatientData]
	if err := do(ctx, c, http.MethodPost, "/public/patients/check", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWebsiteSettings fetches the tenant branding/content document.
func (c *Client) GetWebsiteSettings(ctx context.Context) (*Response[WebsiteSettings], error) {
	var out Response[WebsiteSettings]
	if err := do(ctx, c, http.MethodGet, "/public/website-settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func do[T any](ctx context.Context, c *Client, method, path string, body interface{}, out *Response[T]) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("clinicapi: marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("clinicapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clinicapi: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("clinicapi: read response: %w", err)
	}

	// The backend returns its envelope on 4xx as well, so decode before
	// checking the status. Anything that is not valid envelope JSON is a
	// transport-level failure.
	if err := json.Unmarshal(respBody, out); err != nil {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("clinicapi: status %d: unmarshal response: %w (%s)", resp.StatusCode, err, msg)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("clinicapi: status %d: %s", resp.StatusCode, out.Message)
	}

	return nil
}
