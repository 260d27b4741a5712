// internal/form/validate.go
//
// Forms subsystem: the contact submission model and its validation.
//
// Context
//   Submission carries go-playground/validator tags.  Validate runs them and
//   converts validator.ValidationErrors into []ErrorField with user-facing
//   messages so the template can highlight exact issues.  Text fields are
//   trimmed before validation; HTML escaping is left to html/template.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission kinds.
const (
	KindContact  = "contact"
	KindFeedback = "feedback"
)

// Submission is one posted contact or feedback message.
type Submission struct {
	ID      string `json:"id"                form:"-"`
	Kind    string `json:"kind"              form:"kind"    validate:"required,oneof=contact feedback"`
	Name    string `json:"name"              form:"name"    validate:"required,max=120"`
	Email   string `json:"email"             form:"email"   validate:"required,email,max=254"`
	Subject string `json:"subject"           form:"subject" validate:"required,max=200"`
	Message string `json:"message"           form:"message" validate:"required,min=10,max=5000"`
	RefSlug string `json:"refSlug,omitempty" form:"ref"     validate:"omitempty,max=200"`
}

// Decode copies posted values into a Submission, trimming whitespace.  An
// empty kind defaults to contact.
func Decode(v url.Values) Submission {
	s := Submission{
		Kind:    strings.ToLower(strings.TrimSpace(v.Get("kind"))),
		Name:    strings.TrimSpace(v.Get("name")),
		Email:   strings.TrimSpace(v.Get("email")),
		Subject: strings.TrimSpace(v.Get("subject")),
		Message: strings.TrimSpace(v.Get("message")),
		RefSlug: strings.TrimSpace(v.Get("ref")),
	}
	if s.Kind == "" {
		s.Kind = KindContact
	}
	return s
}

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// ErrorField describes a single validation failure.  Name is the form field
// name; it is empty for form-level problems.
type ErrorField struct {
	Name    string `json:"field"`
	Message string `json:"message"`
}

// ValidationError wraps []ErrorField.  It is a user error, not a 500.
type ValidationError struct{ Fields []ErrorField }

func (ve ValidationError) Error() string { return "form validation failed" }

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return formName(f.Tag.Get("form"))
	})
	return v
}()

// Validate checks s.  It returns nil or a ValidationError.
func Validate(s Submission) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make([]ErrorField, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ErrorField{Name: fe.Field(), Message: fieldMessage(fe)})
	}
	return ValidationError{Fields: out}
}

func formName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// fieldMessage maps one validator failure to a sentence.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid e-mail address."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "oneof":
		return "Please choose one of the listed options."
	default:
		return "Invalid input."
	}
}
