// cmd/web/main.go
//
// Chorister Corner – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Connect to Vault when VAULT_ADDR is set, so `vault:` config values
//     can be resolved.
//
//  2. Load conf/global.yaml, CHORISTER_* overrides, and secrets.
//
//  3. Start the daily rotating logger (tees to console when in a TTY).
//
//  4. Load the song and hymn catalog and build the slug index.
//
//  5. Optional back-ends: MySQL for contact submissions, Redis for view
//     counters, and a GeoLite2 database for country hints.  Each one is
//     skipped when its config section is empty.
//
//  6. Build the chi router:
//
//     • request ID, access log, recoverer
//     • security headers, HTTPS redirect
//     • request info (UA + geo)
//     • /metrics, /healthz, /sitemap.xml
//     • every registered component (catalog, lyrics, contact)
//
//  7. Serve until SIGINT / SIGTERM, then drain for http.shutdown_timeout.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/choristercorner/chorister/internal/catalog"
	"github.com/choristercorner/chorister/internal/component"
	"github.com/choristercorner/chorister/internal/config"
	"github.com/choristercorner/chorister/internal/database"
	"github.com/choristercorner/chorister/internal/form"
	"github.com/choristercorner/chorister/internal/logger"
	"github.com/choristercorner/chorister/internal/message"
	"github.com/choristercorner/chorister/internal/middleware"
	"github.com/choristercorner/chorister/internal/popularity"
	"github.com/choristercorner/chorister/internal/requestinfo"
	"github.com/choristercorner/chorister/internal/routing"
	"github.com/choristercorner/chorister/internal/server"
	"github.com/choristercorner/chorister/internal/sitemap"
	"github.com/choristercorner/chorister/internal/vault"
	"github.com/choristercorner/chorister/internal/view"

	_ "github.com/choristercorner/chorister/components/catalog"
	_ "github.com/choristercorner/chorister/components/contact"
	_ "github.com/choristercorner/chorister/components/lyrics"
)

const (
	csrfMaxAge     = 2 * time.Hour
	mailWorkers    = 2
	mailBuffer     = 256
	webhookTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		zap.S().Errorw("fatal", "err", err)
		_ = zap.L().Sync()
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Secrets + config ────────────────────────────────────────────
	//
	var sec config.SecretResolver
	if vault.Enabled() {
		vc, err := vault.New(ctx)
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		sec = vc
	}
	cfg, err := config.Load(ctx, sec)
	if err != nil {
		return err
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Level, logger.IsTTY())
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer logOut.Sync()
	logOut.Infow("starting", "site", cfg.Site.Name, "root", cfg.Paths.Root, "vault", sec != nil)

	//
	// ── 3.  Catalog + slug index ────────────────────────────────────────
	//
	cat, err := catalog.Open(cfg.Paths.Abs(cfg.Catalog.SongsFile), cfg.Paths.Abs(cfg.Catalog.HymnsFile))
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	idx := routing.NewIndex(cat)
	logOut.Infow("catalog loaded", "songs", len(cat.Songs), "hymns", len(cat.Hymns))

	var smap bytes.Buffer
	if err := sitemap.Build(&smap, cfg.Site.BaseURL, cat, idx); err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}

	comps := component.All()

	//
	// ── 4.  Optional back-ends ──────────────────────────────────────────
	//
	var db *sqlx.DB
	if cfg.Database.Enabled() {
		dsn, err := database.DSN(cfg.Database.DSN, cfg.Database.Password)
		if err != nil {
			return err
		}
		if db, err = database.Open(ctx, dsn); err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db, component.Migrations(comps)...); err != nil {
			return err
		}
		logOut.Infow("database online")
	}

	var counter popularity.Counter = popularity.Noop{}
	if cfg.Redis.Enabled() {
		rc, cli, err := popularity.NewRedis(ctx, popularity.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// counters are cosmetic; run without them
			logOut.Warnw("redis unavailable, popularity disabled", "err", err)
		} else {
			defer cli.Close()
			counter = rc
		}
	}

	enricher := requestinfo.NewEnricher(nil, cfg.HTTP.TrustProxy)
	if cfg.Geo.DBPath != "" {
		geo, err := requestinfo.OpenGeo(cfg.Paths.Abs(cfg.Geo.DBPath))
		if err != nil {
			logOut.Warnw("geo lookup disabled", "err", err)
		} else {
			defer geo.Close()
			enricher = requestinfo.NewEnricher(geo, cfg.HTTP.TrustProxy)
		}
	}

	queue := message.NewDispatcher(mailWorkers, mailBuffer, &http.Client{Timeout: webhookTimeout})
	defer queue.Close()

	//
	// ── 5.  Components ──────────────────────────────────────────────────
	//
	env := component.Env{
		Config:  cfg,
		Catalog: cat,
		Index:   idx,
		Views:   view.New(cfg.Site),
		Popular: counter,
		Form: &form.Handler{
			CSRF:    form.NewCSRF(cfg.Contact.CSRFKey, csrfMaxAge),
			MinFill: cfg.Contact.MinFill,
			Actions: contactActions(cfg, db, queue, logOut),
		},
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(logger.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(enricher.Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Get("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write(smap.Bytes())
	})

	if err := component.Setup(r, env, comps); err != nil {
		return err
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) { env.NotFound(w, r, "") })

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, r), cfg.HTTP.ShutdownTimeout)
}

// contactActions maps contact.actions onto form.Actions.  A store action
// without a database is skipped with a warning rather than failing start-up.
func contactActions(cfg *config.Config, db *sqlx.DB, q message.Queue, lg *zap.SugaredLogger) []form.Action {
	var acts []form.Action
	for _, name := range cfg.Contact.Actions {
		switch name {
		case "store":
			if db == nil {
				lg.Warnw("contact store action configured without a database; skipped")
				continue
			}
			acts = append(acts, form.StoreAction{DB: db})
		case "email":
			acts = append(acts, form.EmailAction{Queue: q, To: cfg.Contact.EmailTo, Site: cfg.Site.Name})
		case "webhook":
			acts = append(acts, form.WebhookAction{Queue: q, URL: cfg.Contact.WebhookURL})
		}
	}
	return acts
}
