package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecord() Record {
	r := NewRecord()
	r.PatientType = "New"
	r.Reason = "Tooth Extraction"
	r.FirstName = " Maria "
	r.LastName = "Santos"
	r.Gender = "Female"
	r.CivilStatus = "Married"
	r.DateOfBirth = "1990-04-15"
	r.MobileNumber = "0917 123 4567"
	r.EmailAddress = "maria@example.com"
	r.SelectedDate = "October 2, 2025"
	r.SelectedTime = "14:30"
	r.HowDidYouKnow = "Google"
	r.MedicalHistory.Hospitalized = "No"
	return r
}

func TestBuildSubmitRequestHappyPath(t *testing.T) {
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.Local)
	req, err := BuildSubmitRequest(fullRecord(), now)
	require.NoError(t, err)

	assert.Equal(t, "Maria", req.Patient.FirstName)
	assert.Equal(t, "+639171234567", req.Patient.MobileNumber)
	assert.Equal(t, "1990-04-15", req.Patient.DateOfBirth)
	assert.Nil(t, req.Patient.MiddleName)
	assert.Equal(t, "2025-10-02", req.Appointment.SelectedDate)
	assert.Equal(t, "2:30 PM", req.Appointment.SelectedTime)
	assert.Equal(t, "Google", req.Appointment.HowDidYouKnow)
	require.NotNil(t, req.MedicalHistory.Hospitalized)
	assert.Equal(t, "No", *req.MedicalHistory.Hospitalized)
}

func TestBuildSubmitRequestRejectsPastDate(t *testing.T) {
	now := time.Date(2025, time.October, 3, 9, 0, 0, 0, time.Local)
	r := fullRecord()
	r.SelectedDate = "October 2, 2025"

	_, err := BuildSubmitRequest(r, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-10-02")
	assert.Contains(t, err.Error(), "2025-10-03")
}

func TestBuildSubmitRequestAcceptsToday(t *testing.T) {
	now := time.Date(2025, time.October, 2, 23, 30, 0, 0, time.Local)
	r := fullRecord()
	r.SelectedDate = "today"

	req, err := BuildSubmitRequest(r, now)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-02", req.Appointment.SelectedDate)
}

func TestBuildSubmitRequestFailsOnUnparseableDate(t *testing.T) {
	r := fullRecord()
	r.SelectedDate = "whenever works"

	_, err := BuildSubmitRequest(r, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date format")
}

func TestBuildSubmitRequestDefaultsEnums(t *testing.T) {
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.Local)
	r := fullRecord()
	r.PatientType = "Returning"
	r.Gender = "Unsure"
	r.CivilStatus = "It's complicated"
	r.HowDidYouKnow = "Billboard"
	r.MedicalHistory.BloodType = "C+"
	r.MedicalHistory.Tobacco = "Sometimes"

	req, err := BuildSubmitRequest(r, now)
	require.NoError(t, err)
	assert.Equal(t, "New", req.Patient.PatientType)
	assert.Equal(t, "Prefer not to say", req.Patient.Gender)
	assert.Equal(t, "Single", req.Patient.CivilStatus)
	assert.Equal(t, "Others", req.Appointment.HowDidYouKnow)
	require.NotNil(t, req.MedicalHistory.BloodType)
	assert.Equal(t, "Unknown", *req.MedicalHistory.BloodType)
	// Yes/No flags outside their set are dropped, not defaulted.
	assert.Nil(t, req.MedicalHistory.Tobacco)
}

func TestBuildSubmitRequestDefaultsReason(t *testing.T) {
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.Local)
	r := fullRecord()
	r.Reason = "  "

	req, err := BuildSubmitRequest(r, now)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", req.Appointment.Reason)
}

func TestBuildSubmitRequestOptionalTextBecomesAbsent(t *testing.T) {
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.Local)
	r := fullRecord()
	r.MiddleName = "   "
	r.Occupation = " dentist assistant "
	r.Notes = ""

	req, err := BuildSubmitRequest(r, now)
	require.NoError(t, err)
	assert.Nil(t, req.Patient.MiddleName)
	require.NotNil(t, req.Patient.Occupation)
	assert.Equal(t, "dentist assistant", *req.Patient.Occupation)
	assert.Nil(t, req.Appointment.Notes)
}

func TestBuildSubmitRequestMedicalHistoryBlocks(t *testing.T) {
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.Local)
	r := fullRecord()
	r.MedicalHistory.BloodPressure = "120 over 8"
	r.MedicalHistory.ForWomenOnly.Pregnant = "N/A"
	r = r.WithAllergicItem("penicillin", true)
	r = r.WithCondition("Diabetes", true)

	req, err := BuildSubmitRequest(r, now)
	require.NoError(t, err)

	require.NotNil(t, req.MedicalHistory.BloodPressure)
	assert.Equal(t, "120/08", *req.MedicalHistory.BloodPressure)
	require.NotNil(t, req.MedicalHistory.ForWomenOnly)
	assert.Equal(t, "N/A", *req.MedicalHistory.ForWomenOnly.Pregnant)
	assert.Nil(t, req.MedicalHistory.ForWomenOnly.Nursing)
	require.NotNil(t, req.MedicalHistory.AllergicItems)
	assert.True(t, req.MedicalHistory.AllergicItems.Penicillin)
	assert.Equal(t, []string{"Diabetes"}, req.MedicalHistory.FollowingConditions)
}

func TestBuildSubmitRequestOmitsUnsetMedicalHistory(t *testing.T) {
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.Local)
	r := fullRecord()

	req, err := BuildSubmitRequest(r, now)
	require.NoError(t, err)
	assert.Nil(t, req.MedicalHistory.AllergicItems)
	assert.Nil(t, req.MedicalHistory.ForWomenOnly)
	assert.Nil(t, req.MedicalHistory.BloodType)
	assert.Nil(t, req.MedicalHistory.BloodPressure)
	assert.Empty(t, req.MedicalHistory.FollowingConditions)
}

func TestBuildSubmitRequestUnparseableBloodPressureOmitted(t *testing.T) {
	now := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.Local)
	r := fullRecord()
	r.MedicalHistory.BloodPressure = "normal-ish"

	req, err := BuildSubmitRequest(r, now)
	require.NoError(t, err)
	assert.Nil(t, req.MedicalHistory.BloodPressure)
}

func TestAge(t *testing.T) {
	now := time.Date(2025, time.October, 2, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 35, Age("1990-04-15", now))
	assert.Equal(t, 34, Age("1990-11-01", now))
	assert.Equal(t, 35, Age("1990-10-02", now))
	assert.Equal(t, 0, Age("", now))
	assert.Equal(t, 0, Age("not a date", now))
}
