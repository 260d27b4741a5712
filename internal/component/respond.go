// internal/component/respond.go
//
// Response helpers shared by components.  Errors are logged through the
// request-scoped logger; clients only ever see a status text.
package component

import (
	"encoding/json"
	"net/http"

	"github.com/choristercorner/chorister/internal/logger"
)

// JSON writes v with status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warnw("json encode", "err", err)
	}
}

// JSONError writes {"error": msg} with status.
func JSONError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, map[string]string{"error": msg})
}

// NotFound renders the 404 page.  what names the missing thing (may be "").
func (env Env) NotFound(w http.ResponseWriter, r *http.Request, what string) {
	if env.Views == nil {
		http.NotFound(w, r)
		return
	}
	var data any
	if what != "" {
		data = what
	}
	if err := env.Views.Render(w, r, http.StatusNotFound, "notfound", nil, data); err != nil {
		env.ServerError(w, r, err)
	}
}

// ServerError logs err and writes a bare 500.
func (env Env) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Errorw("handler error",
		"path", r.URL.Path,
		"err", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
