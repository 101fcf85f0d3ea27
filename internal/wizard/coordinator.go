package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/booking"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/clinicapi"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/observability/metrics"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/pkg/logging"
)

// State is the submission lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Outcome is the observable result of a submission attempt.
type Outcome struct {
	State           State               `json:"state"`
	AppointmentCode string              `json:"appointmentCode,omitempty"`
	Message         string              `json:"message,omitempty"`
	FieldErrors     map[string][]string `json:"fieldErrors,omitempty"`
}

// Submitter is the slice of the clinic API client the coordinator needs.
type Submitter interface {
	SubmitAppointment(ctx context.Context, req clinicapi.SubmitAppointmentRequest) (*clinicapi.Response[clinicapi.SubmitAppointmentData], error)
}

// Coordinator drives the one-shot submission lifecycle:
// validate -> transform -> submit -> interpret. A fired guard makes the
// entry point idempotent per arming, so re-entrant triggers on entering the
// confirmation step cannot double-submit. Close suppresses any state write
// that would land after teardown and aborts the in-flight call.
type Coordinator struct {
	client  Submitter
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
	now     func() time.Time

	mu      sync.Mutex
	fired   bool
	closed  bool
	cancel  context.CancelFunc
	outcome Outcome
}

// NewCoordinator creates a submission coordinator. Metrics may be nil.
func NewCoordinator(client Submitter, m *metrics.BookingMetrics, logger *logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Coordinator{
		client:  client,
		logger:  logger,
		metrics: m,
		now:     time.Now,
		outcome: Outcome{State: StateIdle},
	}
}

// Outcome returns the current submission outcome.
func (co *Coordinator) Outcome() Outcome {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.outcome
}

// Begin runs the full submission sequence for the given record. It fires at
// most once per arming: duplicate calls return the outcome of the first
// without touching the network.
func (co *Coordinator) Begin(ctx context.Context, record booking.Record) Outcome {
	co.mu.Lock()
	if co.fired || co.closed {
		out := co.outcome
		co.mu.Unlock()
		return out
	}
	co.fired = true
	co.outcome = Outcome{State: StateSubmitting}
	co.mu.Unlock()

	start := co.now()

	if result := booking.ValidateMedicalHistory(record.MedicalHistory); !result.Valid {
		co.logger.Info("submission blocked by validation", "violations", len(result.Violations))
		co.metrics.ObserveSubmission("invalid", co.now().Sub(start).Seconds())
		return co.finish(Outcome{
			State:       StateFailed,
			Message:     strings.Join(result.Violations, " "),
			FieldErrors: map[string][]string{"medicalHistory": result.Violations},
		})
	}

	req, err := booking.BuildSubmitRequest(record, co.now())
	if err != nil {
		co.logger.Warn("submission transform failed", "error", err)
		co.metrics.ObserveSubmission("transform_error", co.now().Sub(start).Seconds())
		return co.finish(Outcome{State: StateFailed, Message: err.Error()})
	}

	callCtx, cancel := context.WithCancel(ctx)
	co.mu.Lock()
	if co.closed {
		co.mu.Unlock()
		cancel()
		return Outcome{State: StateIdle}
	}
	co.cancel = cancel
	co.mu.Unlock()

	resp, err := co.client.SubmitAppointment(callCtx, *req)
	cancel()

	elapsed := co.now().Sub(start).Seconds()
	if err != nil {
		co.logger.Error("submission request failed", "error", err)
		co.metrics.ObserveSubmission("transport_error", elapsed)
		return co.finish(Outcome{State: StateFailed, Message: err.Error()})
	}

	out := interpretSubmitResponse(resp)
	if out.State == StateSucceeded {
		co.logger.Info("appointment booked", "appointment_code", out.AppointmentCode)
		co.metrics.ObserveSubmission("succeeded", elapsed)
	} else {
		co.logger.Warn("submission rejected", "message", out.Message)
		co.metrics.ObserveSubmission("rejected", elapsed)
	}
	return co.finish(out)
}

// Retry re-arms the guard and runs the whole sequence again. Used after a
// failed attempt; accumulated data is untouched.
func (co *Coordinator) Retry(ctx context.Context, record booking.Record) Outcome {
	co.Rearm()
	return co.Begin(ctx, record)
}

// Rearm resets the one-shot guard so the next Begin fires again.
func (co *Coordinator) Rearm() {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.closed {
		return
	}
	co.fired = false
	co.outcome = Outcome{State: StateIdle}
}

// Close aborts any in-flight call and suppresses all further state writes.
func (co *Coordinator) Close() {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.closed = true
	if co.cancel != nil {
		co.cancel()
		co.cancel = nil
	}
}

// finish records the outcome unless the coordinator was closed while the
// call was in flight, in which case the stale result is dropped.
func (co *Coordinator) finish(out Outcome) Outcome {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.closed {
		return co.outcome
	}
	co.outcome = out
	return out
}

func interpretSubmitResponse(resp *clinicapi.Response[clinicapi.SubmitAppointmentData]) Outcome {
	if resp == nil {
		return Outcome{State: StateFailed, Message: "The server returned an unexpected response. Please try again."}
	}

	if resp.Success {
		if resp.Data == nil || resp.Data.Appointment.AppointmentCode == "" {
			return Outcome{State: StateFailed, Message: "The server returned an incomplete response. Please try again."}
		}
		return Outcome{
			State:           StateSucceeded,
			AppointmentCode: resp.Data.Appointment.AppointmentCode,
			Message:         resp.Message,
		}
	}

	message := resp.Message
	if message == "" && resp.Error != nil {
		message = resp.Error.Message
	}
	if message == "" {
		message = "The server returned an unexpected response. Please try again."
	}
	if resp.Error != nil && resp.Error.Code == clinicapi.ErrCodeTimeSlotUnavailable && len(resp.Error.SuggestedTimes) > 0 {
		message += " Available times: " + strings.Join(resp.Error.SuggestedTimes, ", ")
	}

	return Outcome{
		State:       StateFailed,
		Message:     message,
		FieldErrors: resp.Errors,
	}
}
