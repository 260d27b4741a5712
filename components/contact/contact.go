// components/contact/contact.go
//
// Contact Component – the contact / feedback form.
//
// Routes
// ------
//   GET  /contact   blank form with a fresh CSRF token (?ref=slug pre-fills
//                   the song a feedback note is about)
//   POST /contact   submit; 303 to /contact?sent=1 on success
//
// Error mapping
// -------------
//   ValidationError → 422 and the form again, field messages inline
//   anything else   → 500, logged
//
// The component owns the contact_submission table and returns its DDL from
// Migrations, so cmd/web creates it whenever a database is configured.
package contact

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choristercorner/chorister/internal/component"
	"github.com/choristercorner/chorister/internal/form"
	"github.com/choristercorner/chorister/internal/head"
	"github.com/choristercorner/chorister/internal/requestinfo"
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	env component.Env
}

func (c *Comp) Name() string         { return "contact" }
func (c *Comp) Migrations() []string { return []string{form.Schema} }

func (c *Comp) Init(env component.Env) error {
	if env.Form == nil || env.Form.CSRF == nil {
		return errors.New("form handler not configured")
	}
	c.env = env
	return nil
}

func (c *Comp) Routes(r chi.Router) {
	r.Get("/contact", c.get)
	r.Post("/contact", c.post)
}

// Register component at package init.
func init() {
	component.Register(&Comp{})
}

// pageData feeds contact.html.
type pageData struct {
	Form      form.Submission
	Errors    map[string]string
	FormError string
	Token     string
	Honeypot  string
	Sent      bool
}

func (c *Comp) get(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Form: form.Submission{Kind: form.KindContact, RefSlug: r.URL.Query().Get("ref")},
		Sent: r.URL.Query().Get("sent") == "1",
	}
	if data.Form.RefSlug != "" {
		data.Form.Kind = form.KindFeedback
	}
	c.render(w, r, http.StatusOK, data)
}

func (c *Comp) post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if ri := requestinfo.FromContext(ctx); ri != nil && ri.Geo.IP != nil {
		ctx = form.WithRemoteIP(ctx, ri.Geo.IP.String())
	}

	s, err := c.env.Form.HandleSubmit(r.WithContext(ctx))
	switch {
	case err == nil:
		http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
	case form.IsValidationError(err):
		var ve form.ValidationError
		errors.As(err, &ve)
		data := pageData{Form: s, Errors: map[string]string{}}
		for _, f := range ve.Fields {
			if f.Name == "" {
				data.FormError = f.Message
				continue
			}
			data.Errors[f.Name] = f.Message
		}
		c.render(w, r, http.StatusUnprocessableEntity, data)
	default:
		c.env.ServerError(w, r, err)
	}
}

func (c *Comp) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	tok, err := c.env.Form.CSRF.Generate()
	if err != nil {
		c.env.ServerError(w, r, err)
		return
	}
	data.Token = tok
	data.Honeypot = form.HoneypotField

	hb := head.New()
	hb.SetTitle("Contact | " + c.env.Config.Site.Name)
	hb.SetCanonical(c.env.Config.Site.BaseURL + "/contact")
	hb.Meta("robots", "noindex")
	if err := c.env.Views.Render(w, r, status, "contact", hb, data); err != nil {
		c.env.ServerError(w, r, err)
	}
}
