package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMedicalHistoryHospitalized(t *testing.T) {
	mh := MedicalHistory{Hospitalized: "Yes"}
	result := ValidateMedicalHistory(mh)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0], "hospitalized")

	mh.HospitalizedWhy = "flu"
	result = ValidateMedicalHistory(mh)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
}

func TestValidateMedicalHistoryPrescription(t *testing.T) {
	mh := MedicalHistory{PrescriptionMedication: "Yes", PrescriptionSpecify: "   "}
	result := ValidateMedicalHistory(mh)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0], "prescription")
}

func TestValidateMedicalHistoryBothRules(t *testing.T) {
	mh := MedicalHistory{
		Hospitalized:           "Yes",
		PrescriptionMedication: "Yes",
	}
	result := ValidateMedicalHistory(mh)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 2)
	// Rules are reported in a stable order.
	assert.Contains(t, result.Violations[0], "prescription")
	assert.Contains(t, result.Violations[1], "hospitalized")
}

func TestValidateMedicalHistoryNoAnswerIsValid(t *testing.T) {
	result := ValidateMedicalHistory(MedicalHistory{Hospitalized: "No"})
	assert.True(t, result.Valid)

	result = ValidateMedicalHistory(MedicalHistory{})
	assert.True(t, result.Valid)
}
