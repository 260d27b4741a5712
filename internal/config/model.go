// internal/config/model.go
//
// Typed configuration model for ChoristerCorner.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                             – dotenv values,
//   • `conf/global.yaml`                          – primary static file,
//   • `CHORISTER_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with `vault:` is resolved through the Vault
// client *before* unmarshalling, so the model never stores Vault URIs, only
// plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Optional subsystems (database, redis, geo) are off when their address
//     is empty; validation only applies once they are switched on.

package config

import (
	"path/filepath"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	TrustProxy      bool          `koanf:"trust_proxy"`
}

//
// Site section
//

// Site carries public identity used in <head>, sitemap, and JSON-LD.
type Site struct {
	Name        string `koanf:"name"        validate:"required"`
	BaseURL     string `koanf:"base_url"    validate:"required,url"`
	Description string `koanf:"description"`
}

//
// Catalog section
//

// Catalog points at the bundled JSON collections, relative to Paths.Root
// unless absolute.
type Catalog struct {
	SongsFile string `koanf:"songs_file" validate:"required"`
	HymnsFile string `koanf:"hymns_file" validate:"required"`
	PageSize  int    `koanf:"page_size"  validate:"gte=0,lte=200"`
	CacheSize int    `koanf:"cache_size" validate:"gte=0"`
}

//
// Database section
//

// Database stores contact submissions.  The DSN template stays in YAML so
// operators can tweak host or flags; the password comes from Vault and is
// substituted for the single %s verb.
type Database struct {
	DSN      string `koanf:"dsn"`
	Password string `koanf:"password" validate:"required_with=DSN"`
}

// Enabled reports whether a DSN is configured.
func (d Database) Enabled() bool { return d.DSN != "" }

//
// Redis section
//

// Redis backs the popularity counters.
type Redis struct {
	Addr     string `koanf:"addr"     validate:"omitempty,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"       validate:"gte=0"`
}

// Enabled reports whether an address is configured.
func (r Redis) Enabled() bool { return r.Addr != "" }

//
// Contact section
//

// Contact configures the contact / feedback form pipeline.
type Contact struct {
	CSRFKey    string        `koanf:"csrf_key"    validate:"required,min=16"`
	MinFill    time.Duration `koanf:"min_fill"`
	Actions    []string      `koanf:"actions"     validate:"dive,oneof=store email webhook"`
	EmailTo    []string      `koanf:"email_to"    validate:"dive,email"`
	WebhookURL string        `koanf:"webhook_url" validate:"omitempty,url"`
}

//
// Geo section
//

// Geo points at an optional MaxMind country database.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Log section
//

// Log tunes the zap logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // CHORISTER_ROOT or discovered parent
}

// Abs resolves p against Root unless it is already absolute.
func (p Paths) Abs(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Site     Site     `koanf:"site"`
	Catalog  Catalog  `koanf:"catalog"`
	Database Database `koanf:"database"`
	Redis    Redis    `koanf:"redis"`
	Contact  Contact  `koanf:"contact"`
	Geo      Geo      `koanf:"geo"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"`
}
