// internal/message/message.go
//
// Outbound message queue.
//
// Context
//   The contact form enqueues outbound e-mails and webhooks.  Enqueue never
//   blocks the request: jobs go onto a bounded channel drained by a small
//   worker pool.  Webhooks are POSTed with the request context detached so
//   a client hanging up does not cancel delivery.  E-mail has no transport
//   yet; the worker logs the envelope so operators can see what would be
//   sent.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned when the buffer is saturated.
var ErrQueueFull = errors.New("message queue full")

// ErrClosed is returned after Close.
var ErrClosed = errors.New("message queue closed")

// Email is one outbound e-mail job.
type Email struct {
	To      []string
	Subject string
	Text    string
	ReplyTo string
}

// Webhook is one outbound JSON POST.
type Webhook struct {
	URL  string
	Body []byte
}

// Queue is what producers depend on.
type Queue interface {
	EnqueueEmail(ctx context.Context, msg Email) error
	EnqueueWebhook(ctx context.Context, hook Webhook) error
}

type job struct {
	email *Email
	hook  *Webhook
}

// Dispatcher is the in-process Queue implementation.
type Dispatcher struct {
	jobs   chan job
	client *http.Client
	log    *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts workers goroutines reading a buffer of size buf.
func NewDispatcher(workers, buf int, client *http.Client) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	d := &Dispatcher{
		jobs:   make(chan job, buf),
		client: client,
		log:    zap.S().Named("message"),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// EnqueueEmail queues msg.
func (d *Dispatcher) EnqueueEmail(_ context.Context, msg Email) error {
	return d.push(job{email: &msg})
}

// EnqueueWebhook queues hook.
func (d *Dispatcher) EnqueueWebhook(_ context.Context, hook Webhook) error {
	return d.push(job{hook: &hook})
}

func (d *Dispatcher) push(j job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

//------------------------------------------------------------------------------
// workers
//------------------------------------------------------------------------------

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for j := range d.jobs {
		switch {
		case j.email != nil:
			d.log.Infow("email queued",
				"to", j.email.To, "subject", j.email.Subject, "len", len(j.email.Text))
		case j.hook != nil:
			if err := d.deliver(*j.hook); err != nil {
				d.log.Warnw("webhook failed", "url", j.hook.URL, "err", err)
			}
		}
	}
}

// deliver POSTs once and retries once after a short pause on failure.
func (d *Dispatcher) deliver(h Webhook) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(500 * time.Millisecond)
		}
		if err = d.post(h); err == nil {
			return nil
		}
	}
	return err
}

func (d *Dispatcher) post(h Webhook) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.client.Timeout+time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(h.Body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	d.log.Debugw("webhook delivered", "url", h.URL, "status", resp.StatusCode)
	return nil
}
