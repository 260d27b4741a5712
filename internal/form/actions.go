// internal/form/actions.go
//
// Forms subsystem: post-submit actions.
//
// Context
//   After validation the submission is handed to each configured action in
//   order.  `store` writes a row through sqlx; `email` and `webhook` queue
//   work on the message dispatcher so the request returns promptly.  Queue
//   failures are logged and swallowed.  A store failure is returned, because
//   the message would otherwise be lost.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/choristercorner/chorister/internal/logger"
	"github.com/choristercorner/chorister/internal/message"
)

// Action is one post-submit step.
type Action interface {
	Name() string
	Run(ctx context.Context, s Submission) error
}

// durable marks actions whose failure fails the submission.
type durable interface{ Durable() bool }

// ExecuteActions runs acts in order.  It returns the first durable failure.
func ExecuteActions(ctx context.Context, s Submission, acts []Action) error {
	var first error
	for _, a := range acts {
		err := a.Run(ctx, s)
		if err == nil {
			continue
		}
		logger.FromContext(ctx).Errorw("form action failed",
			"action", a.Name(), "id", s.ID, "err", err)
		if d, ok := a.(durable); ok && d.Durable() && first == nil {
			first = fmt.Errorf("%s action: %w", a.Name(), err)
		}
	}
	return first
}

// -----------------------------------------------------------------------------
// Store action
// -----------------------------------------------------------------------------

// Schema creates the table StoreAction writes to.
const Schema = `CREATE TABLE IF NOT EXISTS contact_submission (
	id         CHAR(36)      NOT NULL PRIMARY KEY,
	kind       VARCHAR(16)   NOT NULL,
	name       VARCHAR(120)  NOT NULL,
	email      VARCHAR(254)  NOT NULL,
	subject    VARCHAR(200)  NOT NULL,
	message    TEXT          NOT NULL,
	ref_slug   VARCHAR(200)  NOT NULL DEFAULT '',
	remote_ip  VARCHAR(45)   NOT NULL DEFAULT '',
	created_at DATETIME      NOT NULL,
	KEY idx_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// StoreAction inserts into contact_submission.
type StoreAction struct {
	DB  *sqlx.DB
	Now func() time.Time
}

func (StoreAction) Name() string  { return "store" }
func (StoreAction) Durable() bool { return true }

const insertSubmission = `INSERT INTO contact_submission
	(id, kind, name, email, subject, message, ref_slug, remote_ip, created_at)
	VALUES (:id, :kind, :name, :email, :subject, :message, :ref_slug, :remote_ip, :created_at)`

type submissionRow struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Subject   string    `db:"subject"`
	Message   string    `db:"message"`
	RefSlug   string    `db:"ref_slug"`
	RemoteIP  string    `db:"remote_ip"`
	CreatedAt time.Time `db:"created_at"`
}

func (a StoreAction) Run(ctx context.Context, s Submission) error {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	_, err := a.DB.NamedExecContext(ctx, insertSubmission, submissionRow{
		ID:        s.ID,
		Kind:      s.Kind,
		Name:      s.Name,
		Email:     s.Email,
		Subject:   s.Subject,
		Message:   s.Message,
		RefSlug:   s.RefSlug,
		RemoteIP:  remoteIP(ctx),
		CreatedAt: now().UTC(),
	})
	return err
}

// -----------------------------------------------------------------------------
// Email action
// -----------------------------------------------------------------------------

// EmailAction queues a notification to the site team.
type EmailAction struct {
	Queue message.Queue
	To    []string
	Site  string
}

func (EmailAction) Name() string { return "email" }

func (a EmailAction) Run(ctx context.Context, s Submission) error {
	if len(a.To) == 0 {
		return fmt.Errorf("no recipients configured")
	}
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s <%s>\nKind: %s\n", s.Name, s.Email, s.Kind)
	if s.RefSlug != "" {
		fmt.Fprintf(&body, "Page: /lyrics/%s\n", s.RefSlug)
	}
	fmt.Fprintf(&body, "\n%s\n", s.Message)

	return a.Queue.EnqueueEmail(ctx, message.Email{
		To:      a.To,
		Subject: fmt.Sprintf("[%s %s] %s", a.Site, s.Kind, s.Subject),
		Text:    body.String(),
		ReplyTo: s.Email,
	})
}

// -----------------------------------------------------------------------------
// Webhook action
// -----------------------------------------------------------------------------

// WebhookAction queues a JSON POST of the submission.
type WebhookAction struct {
	Queue message.Queue
	URL   string
}

func (WebhookAction) Name() string { return "webhook" }

func (a WebhookAction) Run(ctx context.Context, s Submission) error {
	if a.URL == "" {
		return fmt.Errorf("webhook url not configured")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return a.Queue.EnqueueWebhook(ctx, message.Webhook{URL: a.URL, Body: payload})
}

// -----------------------------------------------------------------------------
// request metadata
// -----------------------------------------------------------------------------

type ipKey struct{}

// WithRemoteIP stores the client address for the store action.
func WithRemoteIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey{}, ip)
}

func remoteIP(ctx context.Context) string {
	ip, _ := ctx.Value(ipKey{}).(string)
	return ip
}
