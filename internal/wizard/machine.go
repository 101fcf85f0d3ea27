// Package wizard implements the booking flow state machine: the fixed step
// sequence, the controller that owns the booking record across steps, and
// the submission coordinator that drives the one-shot submit lifecycle.
package wizard

import (
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/booking"
)

// Step identifies one screen of the booking flow.
type Step int

// The fixed wizard steps, in forward order.
const (
	StepHome Step = iota
	StepPatientType
	StepVisitConfirmation
	StepDateTime
	StepPatientDetails
	StepMedicalHistory
	StepConfirmation
)

var stepNames = map[Step]string{
	StepHome:              "home",
	StepPatientType:       "patient_type",
	StepVisitConfirmation: "visit_confirmation",
	StepDateTime:          "date_time",
	StepPatientDetails:    "patient_details",
	StepMedicalHistory:    "medical_history",
	StepConfirmation:      "confirmation",
}

// String returns the step's wire name.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "home"
}

// StepFor maps an ordinal to a Step. Unknown or out-of-range values fall
// back to Home.
func StepFor(n int) Step {
	s := Step(n)
	if s < StepHome || s > StepConfirmation {
		return StepHome
	}
	return s
}

// jumpTargets lists the earlier steps each step may jump directly back to
// via its "change" actions, besides plain forward/back movement.
var jumpTargets = map[Step][]Step{
	StepPatientType:       {StepHome},
	StepVisitConfirmation: {StepPatientType},
	StepDateTime:          {StepPatientType},
	StepPatientDetails:    {StepPatientType, StepDateTime},
	StepMedicalHistory:    {StepPatientDetails},
	StepConfirmation:      {StepHome},
}

// CanJump reports whether a direct jump from one step to another is part of
// the flow.
func CanJump(from, to Step) bool {
	for _, t := range jumpTargets[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Controller owns the booking record for the lifetime of one booking
// session and tracks the current step. It is the only writer of the record;
// every mutation goes through one of its two entry points, which replace
// the record value wholesale so prior steps' data is never lost when the
// patient navigates backward and forward.
type Controller struct {
	step   Step
	record booking.Record
}

// NewController starts a fresh wizard session at Home with an empty record.
func NewController() *Controller {
	return &Controller{
		step:   StepHome,
		record: booking.NewRecord(),
	}
}

// Step returns the current step.
func (c *Controller) Step() Step { return c.step }

// Record returns the accumulated booking record.
func (c *Controller) Record() booking.Record { return c.record }

// Advance moves to the next step in the fixed order. Advancing from the
// final Confirmation step restarts the flow at Home with a fresh record.
func (c *Controller) Advance() Step {
	if c.step >= StepConfirmation {
		c.Reset()
		return c.step
	}
	c.step++
	return c.step
}

// Back moves to the previous step, stopping at Home. Entered data is kept.
func (c *Controller) Back() Step {
	if c.step > StepHome {
		c.step--
	}
	return c.step
}

// JumpTo moves directly to an earlier step via a "change" action, keeping
// all accumulated data. Jumps that are not part of the flow are ignored and
// the current step is returned.
func (c *Controller) JumpTo(to Step) Step {
	if CanJump(c.step, to) {
		c.step = to
	}
	return c.step
}

// Reset returns to Home and discards the accumulated record. Used when a
// completed booking's Confirmation screen continues back to the start.
func (c *Controller) Reset() {
	c.step = StepHome
	c.record = booking.NewRecord()
}

// SetField sets a top-level scalar field of the record.
func (c *Controller) SetField(f booking.Field, value string) {
	c.record = c.record.WithField(f, value)
}

// SetMedicalField sets a scalar field of the nested medical history.
func (c *Controller) SetMedicalField(f booking.MedicalField, value string) {
	c.record = c.record.WithMedicalField(f, value)
}

// SetAllergicItem toggles one of the fixed allergy checkboxes.
func (c *Controller) SetAllergicItem(name string, checked bool) {
	c.record = c.record.WithAllergicItem(name, checked)
}

// SetCondition adds or removes a condition from the checklist selection.
func (c *Controller) SetCondition(label string, selected bool) {
	c.record = c.record.WithCondition(label, selected)
}
