package leadform

import (
	"errors"
)

// Field names a draft input
type Field string

const (
	FieldName    Field = "name"
	FieldPhone   Field = "phone"
	FieldEmail   Field = "email"
	FieldCountry Field = "country"
	FieldCargo   Field = "cargo"
)

// State is the submission state of the draft
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Messages shown by the form
const (
	MsgRequiredFields = "Пожалуйста, заполните имя, телефон и страну отправления"
	MsgInvalidPhone   = "Введите корректный номер телефона"
	MsgInvalidEmail   = "Введите корректный email"
	MsgConsent        = "Необходимо дать согласие на обработку персональных данных"
	MsgGenericFailure = "Произошла ошибка при отправке. Попробуйте позже."
	MsgSuccess        = "Заявка отправлена! Мы свяжемся с вами в течение 15 минут"
)

var (
	// ErrSubmissionInFlight is returned when a submit is requested while one is running
	ErrSubmissionInFlight = errors.New("leadform: submission already in progress")

	// ErrAlreadySubmitted is returned after a successful submit until the form closes
	ErrAlreadySubmitted = errors.New("leadform: draft already submitted")

	// ErrUnknownField is returned for fields the form does not render
	ErrUnknownField = errors.New("leadform: field not present on this form")
)

// Draft is the in-progress content of one form
type Draft struct {
	Name         string
	Phone        string // display format, see normalize.FormatPhone
	Email        string
	Country      string // catalog code, slug or CRM id
	Cargo        string
	ConsentGiven bool
}

// FeedbackKind classifies the banner currently shown
type FeedbackKind int

const (
	FeedbackNone FeedbackKind = iota
	FeedbackError
	FeedbackWarning
	FeedbackSuccess
)

// Feedback is the banner shown above the form. Field is set when the
// message belongs to a single input.
type Feedback struct {
	Kind    FeedbackKind
	Message string
	Field   Field
}

// Snapshot is a read-only view of the form
type Snapshot struct {
	Draft          Draft
	State          State
	Feedback       Feedback
	FieldErrors    map[Field]string
	IdempotencyKey string
}
