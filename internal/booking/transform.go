package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/clinicapi"
)

// Defaults applied when an enum field holds something outside its allowed
// set. Cosmetic fields degrade gracefully; only the appointment date is a
// hard gate.
const (
	defaultPatientType = PatientTypeNew
	defaultGender      = "Prefer not to say"
	defaultCivilStatus = "Single"
	defaultReferral    = "Others"
	defaultBloodType   = "Unknown"
	defaultReason      = "Consultation"
)

// BuildSubmitRequest maps an accumulated booking record into the backend
// submission contract. The appointment date is normalized and rejected when
// it falls before today's local calendar date; every other coercion defaults
// rather than fails.
func BuildSubmitRequest(r Record, now time.Time) (*clinicapi.SubmitAppointmentRequest, error) {
	selectedDate, err := NormalizeDate(r.SelectedDate, now)
	if err != nil {
		return nil, fmt.Errorf("transform booking: %w", err)
	}
	today := fmt.Sprintf("%04d-%02d-%02d", now.Year(), int(now.Month()), now.Day())
	if selectedDate < today {
		return nil, fmt.Errorf("transform booking: selected date %s is before today (%s)", selectedDate, today)
	}

	dateOfBirth := strings.TrimSpace(r.DateOfBirth)
	if normalized, err := NormalizeDate(dateOfBirth, now); err == nil {
		dateOfBirth = normalized
	}

	reason := strings.TrimSpace(r.Reason)
	if reason == "" {
		reason = defaultReason
	}

	req := &clinicapi.SubmitAppointmentRequest{
		Patient: clinicapi.PatientData{
			PatientType:  pickEnum(r.PatientType, []string{PatientTypeNew, PatientTypeExisting}, defaultPatientType),
			FirstName:    strings.TrimSpace(r.FirstName),
			LastName:     strings.TrimSpace(r.LastName),
			MiddleName:   optional(r.MiddleName),
			Gender:       pickEnum(r.Gender, Genders, defaultGender),
			CivilStatus:  pickEnum(r.CivilStatus, CivilStatuses, defaultCivilStatus),
			DateOfBirth:  dateOfBirth,
			Occupation:   optional(r.Occupation),
			MobileNumber: NormalizeMobileNumber(r.MobileNumber),
			EmailAddress: strings.TrimSpace(r.EmailAddress),
		},
		Appointment: clinicapi.AppointmentData{
			Reason:        reason,
			SelectedDate:  selectedDate,
			SelectedTime:  NormalizeTime(strings.TrimSpace(r.SelectedTime)),
			HowDidYouKnow: pickEnum(r.HowDidYouKnow, ReferralSources, defaultReferral),
			Notes:         optional(r.Notes),
		},
		MedicalHistory: buildMedicalHistory(r.MedicalHistory),
	}
	return req, nil
}

func buildMedicalHistory(mh MedicalHistory) clinicapi.MedicalHistoryData {
	out := clinicapi.MedicalHistoryData{
		GeneralHealth:          optional(mh.GeneralHealth),
		MedicalTreatment:       optional(mh.MedicalTreatment),
		MedicalCondition:       optional(mh.MedicalCondition),
		Services:               optional(mh.Services),
		Hospitalized:           optionalEnum(mh.Hospitalized, YesNo),
		HospitalizedWhy:        optional(mh.HospitalizedWhy),
		PrescriptionMedication: optionalEnum(mh.PrescriptionMedication, YesNo),
		PrescriptionSpecify:    optional(mh.PrescriptionSpecify),
		Tobacco:                optionalEnum(mh.Tobacco, YesNo),
		Alcohol:                optionalEnum(mh.Alcohol, YesNo),
		Allergic:               optionalEnum(mh.Allergic, YesNo),
		BleedingTime:           optional(mh.BleedingTime),
	}

	if mh.AllergicItems != (AllergicItems{}) {
		out.AllergicItems = &clinicapi.AllergicItems{
			LocalAnesthetic: mh.AllergicItems.LocalAnesthetic,
			Penicillin:      mh.AllergicItems.Penicillin,
			Sulfa:           mh.AllergicItems.Sulfa,
			Aspirin:         mh.AllergicItems.Aspirin,
			Latex:           mh.AllergicItems.Latex,
			Others:          mh.AllergicItems.Others,
		}
	}

	women := clinicapi.ForWomenOnly{
		Pregnant:     optionalEnum(mh.ForWomenOnly.Pregnant, YesNoNA),
		Nursing:      optionalEnum(mh.ForWomenOnly.Nursing, YesNoNA),
		BirthControl: optionalEnum(mh.ForWomenOnly.BirthControl, YesNoNA),
	}
	if women.Pregnant != nil || women.Nursing != nil || women.BirthControl != nil {
		out.ForWomenOnly = &women
	}

	if strings.TrimSpace(mh.BloodType) != "" {
		bt := pickEnum(mh.BloodType, BloodTypes, defaultBloodType)
		out.BloodType = &bt
	}

	if bp, ok := NormalizeBloodPressure(mh.BloodPressure); ok && bp != "" {
		out.BloodPressure = &bp
	}

	if len(mh.FollowingConditions) > 0 {
		out.FollowingConditions = append([]string(nil), mh.FollowingConditions...)
	}

	return out
}

// pickEnum returns the trimmed value when it belongs to the allowed set and
// the documented default otherwise. Silent defaulting keeps cosmetic fields
// from blocking a booking.
func pickEnum(value string, allowed []string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if contains(allowed, trimmed) {
		return trimmed
	}
	return fallback
}

// optionalEnum returns the value when it belongs to the allowed set and nil
// (absent) otherwise.
func optionalEnum(value string, allowed []string) *string {
	trimmed := strings.TrimSpace(value)
	if contains(allowed, trimmed) {
		return &trimmed
	}
	return nil
}

// Age derives the patient's age in whole years at the given moment. It
// returns 0 when the date of birth is missing or unreadable.
func Age(dateOfBirth string, now time.Time) int {
	normalized, err := NormalizeDate(dateOfBirth, now)
	if err != nil || strings.TrimSpace(dateOfBirth) == "" {
		return 0
	}
	birth, err := time.ParseInLocation("2006-01-02", normalized, now.Location())
	if err != nil {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// optional trims the value; empty-after-trim becomes absent.
func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
