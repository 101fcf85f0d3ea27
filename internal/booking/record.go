// Package booking holds the appointment booking record accumulated across the
// wizard, the input normalizers, the cross-field validator, and the
// transformation into the clinic backend's submission contract.
package booking

// Patient type values.
const (
	PatientTypeNew      = "New"
	PatientTypeExisting = "Existing"
)

// Genders accepted by the backend.
var Genders = []string{"Male", "Female", "Other", "Prefer not to say"}

// CivilStatuses accepted by the backend.
var CivilStatuses = []string{"Single", "Married", "Divorced", "Widowed", "Separated"}

// ReferralSources answers the "How did you know about us?" question.
var ReferralSources = []string{
	"Walk-in",
	"Referred by a relative or friend",
	"Google",
	"Social Media",
	"YouTube",
	"Others",
}

// BloodTypes accepted by the backend.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-", "Unknown"}

// YesNo values for the medical history flag fields. Empty means unanswered.
var YesNo = []string{"Yes", "No"}

// YesNoNA values for the for-women-only fields.
var YesNoNA = []string{"Yes", "No", "N/A"}

// AllergicItems is the fixed set of named allergy checkboxes.
type AllergicItems struct {
	LocalAnesthetic bool `json:"localAnesthetic"`
	Penicillin      bool `json:"penicillin"`
	Sulfa           bool `json:"sulfa"`
	Aspirin         bool `json:"aspirin"`
	Latex           bool `json:"latex"`
	Others          bool `json:"others"`
}

// ForWomenOnly holds three independent Yes/No/N-A answers.
type ForWomenOnly struct {
	Pregnant     string `json:"pregnant"`
	Nursing      string `json:"nursing"`
	BirthControl string `json:"birthControl"`
}

// MedicalHistory is the nested medical questionnaire owned by the Record.
// Flag fields hold "Yes", "No" or "" (unanswered); the paired free-text
// fields are required only when the flag is "Yes", enforced at submission
// time by Validate.
type MedicalHistory struct {
	GeneralHealth          string        `json:"generalHealth"`
	MedicalTreatment       string        `json:"medicalTreatment"`
	MedicalCondition       string        `json:"medicalCondition"`
	Services               string        `json:"services"`
	Hospitalized           string        `json:"hospitalized"`
	HospitalizedWhy        string        `json:"hospitalizedWhy"`
	PrescriptionMedication string        `json:"prescriptionMedication"`
	PrescriptionSpecify    string        `json:"prescriptionSpecify"`
	Tobacco                string        `json:"tobacco"`
	Alcohol                string        `json:"alcohol"`
	Allergic               string        `json:"allergic"`
	AllergicItems          AllergicItems `json:"allergicItems"`
	BleedingTime           string        `json:"bleedingTime"`
	ForWomenOnly           ForWomenOnly  `json:"forWomenOnly"`
	BloodType              string        `json:"bloodType"`
	BloodPressure          string        `json:"bloodPressure"`
	FollowingConditions    []string      `json:"followingConditions"`
}

// Record is the booking aggregate accumulated across wizard steps. It is a
// value type: every update returns a new Record, so navigating backward and
// forward never loses or aliases previously entered data.
type Record struct {
	PatientType    string         `json:"patientType"`
	Reason         string         `json:"reason"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	MiddleName     string         `json:"middleName"`
	Gender         string         `json:"gender"`
	CivilStatus    string         `json:"civilStatus"`
	DateOfBirth    string         `json:"dateOfBirth"`
	Occupation     string         `json:"occupation"`
	MobileNumber   string         `json:"mobileNumber"`
	EmailAddress   string         `json:"emailAddress"`
	SelectedDate   string         `json:"selectedDate"`
	SelectedTime   string         `json:"selectedTime"`
	HowDidYouKnow  string         `json:"howDidYouKnow"`
	Notes          string         `json:"notes"`
	MedicalHistory MedicalHistory `json:"medicalHistory"`
}

// NewRecord returns an empty booking record.
func NewRecord() Record {
	return Record{
		MedicalHistory: MedicalHistory{
			FollowingConditions: []string{},
		},
	}
}

// Field names a top-level scalar field of the Record.
type Field string

// Top-level scalar fields settable via WithField.
const (
	FieldPatientType   Field = "patientType"
	FieldReason        Field = "reason"
	FieldFirstName     Field = "firstName"
	FieldLastName      Field = "lastName"
	FieldMiddleName    Field = "middleName"
	FieldGender        Field = "gender"
	FieldCivilStatus   Field = "civilStatus"
	FieldDateOfBirth   Field = "dateOfBirth"
	FieldOccupation    Field = "occupation"
	FieldMobileNumber  Field = "mobileNumber"
	FieldEmailAddress  Field = "emailAddress"
	FieldSelectedDate  Field = "selectedDate"
	FieldSelectedTime  Field = "selectedTime"
	FieldHowDidYouKnow Field = "howDidYouKnow"
	FieldNotes         Field = "notes"
)

// MedicalField names a scalar field of the MedicalHistory record.
type MedicalField string

// Medical history scalar fields settable via WithMedicalField.
const (
	MedGeneralHealth          MedicalField = "generalHealth"
	MedMedicalTreatment       MedicalField = "medicalTreatment"
	MedMedicalCondition       MedicalField = "medicalCondition"
	MedServices               MedicalField = "services"
	MedHospitalized           MedicalField = "hospitalized"
	MedHospitalizedWhy        MedicalField = "hospitalizedWhy"
	MedPrescriptionMedication MedicalField = "prescriptionMedication"
	MedPrescriptionSpecify    MedicalField = "prescriptionSpecify"
	MedTobacco                MedicalField = "tobacco"
	MedAlcohol                MedicalField = "alcohol"
	MedAllergic               MedicalField = "allergic"
	MedBleedingTime           MedicalField = "bleedingTime"
	MedPregnant               MedicalField = "pregnant"
	MedNursing                MedicalField = "nursing"
	MedBirthControl           MedicalField = "birthControl"
	MedBloodType              MedicalField = "bloodType"
	MedBloodPressure          MedicalField = "bloodPressure"
)

// WithField returns a copy of the record with the named top-level field set.
// Unknown fields leave the record unchanged, so a stale widget payload can
// never clobber another step's data.
func (r Record) WithField(f Field, value string) Record {
	switch f {
	case FieldPatientType:
		r.PatientType = value
	case FieldReason:
		r.Reason = value
	case FieldFirstName:
		r.FirstName = value
	case FieldLastName:
		r.LastName = value
	case FieldMiddleName:
		r.MiddleName = value
	case FieldGender:
		r.Gender = value
	case FieldCivilStatus:
		r.CivilStatus = value
	case FieldDateOfBirth:
		r.DateOfBirth = value
	case FieldOccupation:
		r.Occupation = value
	case FieldMobileNumber:
		r.MobileNumber = value
	case FieldEmailAddress:
		r.EmailAddress = value
	case FieldSelectedDate:
		r.SelectedDate = value
	case FieldSelectedTime:
		r.SelectedTime = value
	case FieldHowDidYouKnow:
		r.HowDidYouKnow = value
	case FieldNotes:
		r.Notes = value
	}
	return r
}

// WithMedicalField returns a copy of the record with the named medical
// history field set. The nested structure is replaced wholesale rather than
// mutated, keeping value semantics.
func (r Record) WithMedicalField(f MedicalField, value string) Record {
	mh := r.MedicalHistory
	switch f {
	case MedGeneralHealth:
		mh.GeneralHealth = value
	case MedMedicalTreatment:
		mh.MedicalTreatment = value
	case MedMedicalCondition:
		mh.MedicalCondition = value
	case MedServices:
		mh.Services = value
	case MedHospitalized:
		mh.Hospitalized = value
	case MedHospitalizedWhy:
		mh.HospitalizedWhy = value
	case MedPrescriptionMedication:
		mh.PrescriptionMedication = value
	case MedPrescriptionSpecify:
		mh.PrescriptionSpecify = value
	case MedTobacco:
		mh.Tobacco = value
	case MedAlcohol:
		mh.Alcohol = value
	case MedAllergic:
		mh.Allergic = value
	case MedBleedingTime:
		mh.BleedingTime = value
	case MedPregnant:
		mh.ForWomenOnly.Pregnant = value
	case MedNursing:
		mh.ForWomenOnly.Nursing = value
	case MedBirthControl:
		mh.ForWomenOnly.BirthControl = value
	case MedBloodType:
		mh.BloodType = value
	case MedBloodPressure:
		mh.BloodPressure = value
	default:
		return r
	}
	r.MedicalHistory = mh
	return r
}

// WithAllergicItem returns a copy of the record with the named allergy
// checkbox set. Unknown names leave the record unchanged.
func (r Record) WithAllergicItem(name string, checked bool) Record {
	items := r.MedicalHistory.AllergicItems
	switch name {
	case "localAnesthetic":
		items.LocalAnesthetic = checked
	case "penicillin":
		items.Penicillin = checked
	case "sulfa":
		items.Sulfa = checked
	case "aspirin":
		items.Aspirin = checked
	case "latex":
		items.Latex = checked
	case "others":
		items.Others = checked
	default:
		return r
	}
	r.MedicalHistory.AllergicItems = items
	return r
}

// WithCondition returns a copy of the record with the named condition added
// to or removed from the selected-conditions set. Membership is
// order-irrelevant and duplicates are never stored.
func (r Record) WithCondition(label string, selected bool) Record {
	existing := r.MedicalHistory.FollowingConditions
	next := make([]string, 0, len(existing)+1)
	found := false
	for _, c := range existing {
		if c == label {
			found = true
			if !selected {
				continue
			}
		}
		next = append(next, c)
	}
	if selected && !found {
		next = append(next, label)
	}
	r.MedicalHistory.FollowingConditions = next
	return r
}

// HasCondition reports whether the condition label is currently selected.
func (r Record) HasCondition(label string) bool {
	for _, c := range r.MedicalHistory.FollowingConditions {
		if c == label {
			return true
		}
	}
	return false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
