// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` immediately after it unmarshals the merged
// Koanf tree.  Any failure aborts startup, so the binary never runs with
// partial or malformed configuration.
//
// Beyond the built-in tags, one cross-field rule is checked here: a
// database DSN must carry exactly one %s verb for the password.

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Database.Enabled() && strings.Count(c.Database.DSN, "%s") != 1 {
		return fmt.Errorf("database.dsn must contain exactly one %%s verb")
	}
	return nil
}
