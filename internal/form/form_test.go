// internal/form/form_test.go
//
// Unit-tests for CSRF tokens, validation, and HandleSubmit.
//
// Context
// -------
// HandleSubmit is exercised end-to-end with a sqlmock-backed StoreAction and
// a recording queue, so the tests cover the insert, the queued e-mail, and
// the error mapping without a database or network.
//
// Notes
// -----
// • The clock is injected; no test sleeps.

package form

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/choristercorner/chorister/internal/message"
)

const testKey = "0123456789abcdef0123456789abcdef"

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newCSRF(c *clock) *CSRF {
	x := NewCSRF(testKey, time.Hour)
	x.now = c.now
	return x
}

func TestCSRF(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	x := newCSRF(c)

	tok, err := x.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	issued, err := x.Verify(tok)
	if err != nil || !issued.Equal(c.t) {
		t.Fatalf("Verify = %v, %v", issued, err)
	}

	other := NewCSRF("another-key-entirely-0000", time.Hour)
	other.now = c.now
	if _, err := other.Verify(tok); !errors.Is(err, ErrCSRF) {
		t.Fatalf("foreign key accepted: %v", err)
	}

	tampered := []byte(tok)
	tampered[len(tampered)-1] ^= 1
	if _, err := x.Verify(string(tampered)); !errors.Is(err, ErrCSRF) {
		t.Fatalf("tampered token accepted: %v", err)
	}
	if _, err := x.Verify(""); !errors.Is(err, ErrCSRF) {
		t.Fatalf("empty token accepted")
	}

	c.t = c.t.Add(2 * time.Hour)
	if _, err := x.Verify(tok); !errors.Is(err, ErrCSRF) {
		t.Fatalf("expired token accepted")
	}
}

func TestValidate(t *testing.T) {
	ok := Submission{
		Kind: KindFeedback, Name: "Ada", Email: "ada@example.org",
		Subject: "Typo", Message: "Verse 2 has a typo in line three.",
	}
	if err := Validate(ok); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	bad := ok
	bad.Email = "not-an-email"
	bad.Kind = "spam"
	bad.Message = "short"
	err := Validate(bad)

	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	got := map[string]bool{}
	for _, f := range ve.Fields {
		got[f.Name] = true
	}
	for _, want := range []string{"email", "kind", "message"} {
		if !got[want] {
			t.Errorf("missing error for %q in %+v", want, ve.Fields)
		}
	}
}

func TestDecode_DefaultsAndTrims(t *testing.T) {
	s := Decode(url.Values{"name": {"  Ada "}, "ref": {"amazing-grace"}})
	if s.Kind != KindContact || s.Name != "Ada" || s.RefSlug != "amazing-grace" {
		t.Fatalf("Decode = %+v", s)
	}
}

// recordingQueue captures queued jobs.
type recordingQueue struct {
	emails []message.Email
	hooks  []message.Webhook
}

func (q *recordingQueue) EnqueueEmail(_ context.Context, m message.Email) error {
	q.emails = append(q.emails, m)
	return nil
}

func (q *recordingQueue) EnqueueWebhook(_ context.Context, h message.Webhook) error {
	q.hooks = append(q.hooks, h)
	return message.ErrQueueFull // queue failures must not fail the submission
}

func postForm(t *testing.T, x *CSRF, v url.Values) *http.Request {
	t.Helper()
	if v.Get("csrf_token") == "" {
		tok, err := x.Generate()
		if err != nil {
			t.Fatal(err)
		}
		v.Set("csrf_token", tok)
	}
	r := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(v.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func validValues() url.Values {
	return url.Values{
		"kind":    {"feedback"},
		"name":    {"Ada"},
		"email":   {"ada@example.org"},
		"subject": {"Chord chart"},
		"message": {"Could you add the bridge for this hymn?"},
		"ref":     {"hymn-7"},
	}
}

func TestHandleSubmit_Success(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	mock.ExpectExec("INSERT INTO contact_submission").
		WithArgs(sqlmock.AnyArg(), "feedback", "Ada", "ada@example.org", "Chord chart",
			"Could you add the bridge for this hymn?", "hymn-7", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c := &clock{t: time.Unix(1_700_000_000, 0)}
	x := newCSRF(c)
	q := &recordingQueue{}
	h := &Handler{
		CSRF:    x,
		MinFill: 3 * time.Second,
		Now:     c.now,
		Actions: []Action{
			StoreAction{DB: db, Now: c.now},
			EmailAction{Queue: q, To: []string{"team@example.org"}, Site: "Chorister"},
			WebhookAction{Queue: q, URL: "https://hooks.example.org/x"},
		},
	}

	r := postForm(t, x, validValues())
	c.t = c.t.Add(10 * time.Second)

	s, err := h.HandleSubmit(r)
	if err != nil {
		t.Fatalf("HandleSubmit: %v", err)
	}
	if len(s.ID) != 36 {
		t.Fatalf("id = %q, want uuid", s.ID)
	}
	if len(q.emails) != 1 || !strings.Contains(q.emails[0].Subject, "feedback") ||
		q.emails[0].ReplyTo != "ada@example.org" {
		t.Fatalf("emails = %+v", q.emails)
	}
	if len(q.hooks) != 1 {
		t.Fatalf("hooks = %+v", q.hooks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestHandleSubmit_Rejections(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	x := newCSRF(c)
	h := &Handler{CSRF: x, MinFill: 3 * time.Second, Now: c.now}

	t.Run("bad token", func(t *testing.T) {
		v := validValues()
		v.Set("csrf_token", "nope")
		_, err := h.HandleSubmit(postForm(t, x, v))
		if !IsValidationError(err) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("too fast", func(t *testing.T) {
		r := postForm(t, x, validValues())
		_, err := h.HandleSubmit(r)
		if !IsValidationError(err) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("honeypot", func(t *testing.T) {
		v := validValues()
		v.Set(HoneypotField, "http://spam.example")
		r := postForm(t, x, v)
		c.t = c.t.Add(time.Minute)
		if _, err := h.HandleSubmit(r); !IsValidationError(err) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("invalid fields", func(t *testing.T) {
		v := validValues()
		v.Set("email", "x")
		r := postForm(t, x, v)
		c.t = c.t.Add(time.Minute)
		_, err := h.HandleSubmit(r)
		var ve ValidationError
		if !errors.As(err, &ve) || len(ve.Fields) != 1 || ve.Fields[0].Name != "email" {
			t.Fatalf("err = %#v", err)
		}
	})
}

func TestHandleSubmit_StoreFailurePropagates(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()
	mock.ExpectExec("INSERT INTO contact_submission").WillReturnError(errors.New("db down"))

	c := &clock{t: time.Unix(1_700_000_000, 0)}
	x := newCSRF(c)
	h := &Handler{
		CSRF: x, Now: c.now,
		Actions: []Action{StoreAction{DB: sqlx.NewDb(raw, "mysql")}},
	}

	_, err = h.HandleSubmit(postForm(t, x, validValues()))
	if err == nil || IsValidationError(err) {
		t.Fatalf("err = %v, want system error", err)
	}
}
