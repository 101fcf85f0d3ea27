package clinicapi

const (
	defaultBaseURL = "http://127.0.0.1:8000/api"

	// ErrCodeTimeSlotUnavailable is the structured error code the backend
	// returns when the requested slot is already taken. It is the one code
	// with special-cased messaging: suggested alternatives are appended.
	ErrCodeTimeSlotUnavailable = "TIME_SLOT_UNAVAILABLE"
)

// PatientData is the patient block of the submission payload.
type PatientData struct {
	PatientType  string  `json:"patientType"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	MiddleName   *string `json:"middleName,omitempty"`
	Gender       string  `json:"gender"`
	CivilStatus  string  `json:"civilStatus"`
	DateOfBirth  string  `json:"dateOfBirth"` // YYYY-MM-DD
	Occupation   *string `json:"occupation,omitempty"`
	MobileNumber string  `json:"mobileNumber"`
	EmailAddress string  `json:"emailAddress"`
}

// AppointmentData is the appointment block of the submission payload.
type AppointmentData struct {
	Reason        string  `json:"reason"`
	SelectedDate  string  `json:"selectedDate"` // YYYY-MM-DD
	SelectedTime  string  `json:"selectedTime"` // H:MM AM/PM
	HowDidYouKnow string  `json:"howDidYouKnow"`
	Notes         *string `json:"notes,omitempty"`
}

// AllergicItems mirrors the fixed allergy checkbox set.
type AllergicItems struct {
	LocalAnesthetic bool `json:"localAnesthetic"`
	Penicillin      bool `json:"penicillin"`
	Sulfa           bool `json:"sulfa"`
	Aspirin         bool `json:"aspirin"`
	Latex           bool `json:"latex"`
	Others          bool `json:"others"`
}

// ForWomenOnly carries the three Yes/No/N-A answers; absent means
// unanswered.
type ForWomenOnly struct {
	Pregnant     *string `json:"pregnant,omitempty"`
	Nursing      *string `json:"nursing,omitempty"`
	BirthControl *string `json:"birthControl,omitempty"`
}

// MedicalHistoryData is the normalized medical history block of the
// submission payload. Optional fields are omitted rather than sent empty.
type MedicalHistoryData struct {
	GeneralHealth          *string        `json:"generalHealth,omitempty"`
	MedicalTreatment       *string        `json:"medicalTreatment,omitempty"`
	MedicalCondition       *string        `json:"medicalCondition,omitempty"`
	Services               *string        `json:"services,omitempty"`
	Hospitalized           *string        `json:"hospitalized,omitempty"`
	HospitalizedWhy        *string        `json:"hospitalizedWhy,omitempty"`
	PrescriptionMedication *string        `json:"prescriptionMedication,omitempty"`
	PrescriptionSpecify    *string        `json:"prescriptionSpecify,omitempty"`
	Tobacco                *string        `json:"tobacco,omitempty"`
	Alcohol                *string        `json:"alcohol,omitempty"`
	Allergic               *string        `json:"allergic,omitempty"`
	AllergicItems          *AllergicItems `json:"allergicItems,omitempty"`
	BleedingTime           *string        `json:"bleedingTime,omitempty"`
	ForWomenOnly           *ForWomenOnly  `json:"forWomenOnly,omitempty"`
	BloodType              *string        `json:"bloodType,omitempty"`
	BloodPressure          *string        `json:"bloodPressure,omitempty"`
	FollowingConditions    []string       `json:"followingConditions,omitempty"`
}

// SubmitAppointmentRequest is the full submission body for
// POST /public/appointments/submit.
type SubmitAppointmentRequest struct {
	Patient        PatientData        `json:"patient"`
	Appointment    AppointmentData    `json:"appointment"`
	MedicalHistory MedicalHistoryData `json:"medicalHistory"`
}

// ErrorDetail is the optional structured error block on failure responses.
type ErrorDetail struct {
	Code              string   `json:"code"`
	Message           string   `json:"message"`
	SuggestedTimes    []string `json:"suggestedTimes,omitempty"`
	ExistingPatientID int      `json:"existingPatientId,omitempty"`
	Suggestion        string   `json:"suggestion,omitempty"`
}

// Response is the backend's uniform success/failure envelope. Data is only
// meaningful when Success is true; Errors and Error only when it is false.
type Response[T any] struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *T                  `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   *ErrorDetail        `json:"error,omitempty"`
}

// AppointmentRecord is the appointment as echoed back by the backend.
type AppointmentRecord struct {
	ID              int    `json:"id"`
	AppointmentCode string `json:"appointmentCode"`
	Status          string `json:"status"`
	SelectedDate    string `json:"selectedDate"`
	SelectedTime    string `json:"selectedTime"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes,omitempty"`
	HowDidYouKnow   string `json:"howDidYouKnow"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// PatientRecord is the patient as echoed back by the backend.
type PatientRecord struct {
	ID           int    `json:"id"`
	PatientType  string `json:"patientType"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MiddleName   string `json:"middleName,omitempty"`
	EmailAddress string `json:"emailAddress"`
	MobileNumber string `json:"mobileNumber"`
	CreatedAt    string `json:"createdAt"`
}

// MedicalHistoryRecord is the stored medical history reference.
type MedicalHistoryRecord struct {
	ID        int    `json:"id"`
	PatientID int    `json:"patientId"`
	CreatedAt string `json:"createdAt"`
}

// SubmitAppointmentData is the success payload of a submission.
type SubmitAppointmentData struct {
	Appointment    AppointmentRecord    `json:"appointment"`
	Patient        PatientRecord        `json:"patient"`
	MedicalHistory MedicalHistoryRecord `json:"medicalHistory"`
}

// AvailabilityData is the payload of an availability check.
type AvailabilityData struct {
	Date             string   `json:"date"`
	Available        bool     `json:"available"`
	Time             string   `json:"time,omitempty"`
	AlternativeTimes []string `json:"alternativeTimes,omitempty"`
}

// CheckPatientRequest looks up an existing patient by email and/or mobile.
type CheckPatientRequest struct {
	EmailAddress string `json:"emailAddress,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// CheckPatientData is the payload of an existing-patient lookup.
type CheckPatientData struct {
	Exists    bool           `json:"exists"`
	PatientID int            `json:"patientId,omitempty"`
	Patient   *PatientRecord `json:"patient,omitempty"`
}

// GetAppointmentData is the payload of a lookup by appointment code.
type GetAppointmentData struct {
	Appointment AppointmentRecord `json:"appointment"`
	Patient     PatientRecord     `json:"patient"`
	Status      string            `json:"status"`
}

// WebsiteSettings is the tenant branding/content document. Consumed for
// display only; it has no influence on booking logic.
type WebsiteSettings struct {
	ID                 int      `json:"id"`
	ClinicID           *int     `json:"clinic_id"`
	HeaderPhotoURL     string   `json:"header_photo_url"`
	ClinicPhotoURL     string   `json:"clinic_photo_url"`
	LogoURL            string   `json:"logo_url"`
	PrimaryColor       string   `json:"primary_color"`
	ProcedureChoices   []string `json:"procedure_choices"`
	TermsAndConditions string   `json:"terms_and_conditions"`
	PrivacyPolicy      string   `json:"privacy_policy"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}
