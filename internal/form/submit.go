// internal/form/submit.go
//
// Forms subsystem: consolidated Submit helper.
//
// Context
//   Handlers want one call that parses the POST body, checks the CSRF token
//   and minimum fill time, validates, stamps an ID, and runs the actions.
//   Handler.HandleSubmit does that so component code stays terse.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/choristercorner/chorister/internal/metrics"
)

// HoneypotField is a hidden input humans leave empty.
const HoneypotField = "website"

// Handler bundles what HandleSubmit needs.
type Handler struct {
	CSRF    *CSRF
	MinFill time.Duration
	Actions []Action
	Now     func() time.Time
}

// HandleSubmit parses r, verifies, validates, and executes actions.  On user
// error it returns a ValidationError; ErrCSRF is reported as a form-level
// ValidationError too so the page can re-render with a fresh token.  System
// failures are returned as-is.
func (h *Handler) HandleSubmit(r *http.Request) (Submission, error) {
	if err := r.ParseForm(); err != nil {
		return Submission{}, err
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	s := Decode(r.PostForm)

	issued, err := h.CSRF.Verify(r.PostForm.Get("csrf_token"))
	if err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("csrf").Inc()
		return s, ValidationError{Fields: []ErrorField{{
			Message: "Security token invalid.  Please refresh and try again.",
		}}}
	}
	if r.PostForm.Get(HoneypotField) != "" || now().Sub(issued) < h.MinFill {
		metrics.ContactSubmissionsTotal.WithLabelValues("bot").Inc()
		return s, ValidationError{Fields: []ErrorField{{
			Message: "Form submitted too quickly.  Please try again.",
		}}}
	}

	if err := Validate(s); err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		return s, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return s, fmt.Errorf("submission id: %w", err)
	}
	s.ID = id.String()

	if err := ExecuteActions(r.Context(), s, h.Actions); err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("error").Inc()
		return s, err
	}
	metrics.ContactSubmissionsTotal.WithLabelValues("ok").Inc()
	return s, nil
}
