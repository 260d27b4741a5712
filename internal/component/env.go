// internal/component/env.go
package component

import (
	"github.com/choristercorner/chorister/internal/catalog"
	"github.com/choristercorner/chorister/internal/config"
	"github.com/choristercorner/chorister/internal/form"
	"github.com/choristercorner/chorister/internal/popularity"
	"github.com/choristercorner/chorister/internal/routing"
	"github.com/choristercorner/chorister/internal/view"
)

// Env exposes shared resources to Components during Init.  Fields are set
// once by cmd/web and never mutated afterwards.
type Env struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Index   *routing.Index
	Views   *view.Engine
	Popular popularity.Counter
	Form    *form.Handler
}
