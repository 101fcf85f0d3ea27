package booking

import "strings"

// ValidationResult reports the outcome of the submission-time cross-field
// checks. Violations are ordered, human-readable, and safe to surface to the
// patient directly.
type ValidationResult struct {
	Valid      bool
	Violations []string
}

// ValidateMedicalHistory enforces the dependent-field rules that plain
// presence checks cannot express: a "Yes" answer to a flag question requires
// its paired elaboration field. Called once at submission time; never
// mutates the record.
func ValidateMedicalHistory(mh MedicalHistory) ValidationResult {
	var violations []string

	if mh.PrescriptionMedication == "Yes" && strings.TrimSpace(mh.PrescriptionSpecify) == "" {
		violations = append(violations, "Please specify the prescription medication you are taking.")
	}
	if mh.Hospitalized == "Yes" && strings.TrimSpace(mh.HospitalizedWhy) == "" {
		violations = append(violations, "Please tell us why you were hospitalized.")
	}

	return ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}
