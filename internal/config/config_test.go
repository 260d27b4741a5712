// internal/config/config_test.go
//
// Unit-tests for the layered loader.
//
// Each test writes a throwaway conf/global.yaml under t.TempDir() and calls
// LoadFrom with that root, so the developer's own conf tree is never read.

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const baseYAML = `
http:
  listen_addr: ":8080"
site:
  name: ChoristerCorner
  base_url: https://choristercorner.example
catalog:
  songs_file: data/songs.json
  hymns_file: data/hymns.json
contact:
  csrf_key: "0123456789abcdef0123"
  actions: [store, email]
  email_to: [team@choristercorner.example]
database:
  dsn: "chorister:%s@tcp(db:3306)/chorister"
  password: "vault:secret/chorister#db_password"
`

type fakeSecrets map[string]string

func (f fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	if v, ok := f[path+"#"+key]; ok {
		return v, nil
	}
	return "", errors.New("no such secret")
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoad_LayersAndSecrets(t *testing.T) {
	root := writeConf(t, baseYAML)
	t.Setenv("CHORISTER_HTTP__LISTEN_ADDR", ":9090")

	sec := fakeSecrets{"secret/chorister#db_password": "s3cret"}
	cfg, err := LoadFrom(context.Background(), root, sec)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.HTTP.ListenAddr != ":9090" {
		t.Fatalf("env override lost: %q", cfg.HTTP.ListenAddr)
	}
	if cfg.Database.Password != "s3cret" {
		t.Fatalf("vault ref not resolved: %q", cfg.Database.Password)
	}
	if cfg.Catalog.PageSize != 20 || cfg.Contact.MinFill != 3*time.Second {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if got := cfg.Paths.Abs(cfg.Catalog.SongsFile); got != filepath.Join(root, "data", "songs.json") {
		t.Fatalf("Abs = %q", got)
	}
	if Get() != cfg {
		t.Fatalf("Get() did not return the loaded config")
	}
}

func TestLoad_VaultWithoutClient(t *testing.T) {
	root := writeConf(t, baseYAML)
	if _, err := LoadFrom(context.Background(), root, nil); !errors.Is(err, ErrNoSecrets) {
		t.Fatalf("err = %v, want ErrNoSecrets", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"missing listen addr": `
site: {name: x, base_url: "https://x.example"}
catalog: {songs_file: a, hymns_file: b}
contact: {csrf_key: "0123456789abcdef"}
`,
		"bad action": `
http: {listen_addr: ":1"}
site: {name: x, base_url: "https://x.example"}
catalog: {songs_file: a, hymns_file: b}
contact: {csrf_key: "0123456789abcdef", actions: [fax]}
`,
		"dsn without verb": `
http: {listen_addr: ":1"}
site: {name: x, base_url: "https://x.example"}
catalog: {songs_file: a, hymns_file: b}
contact: {csrf_key: "0123456789abcdef"}
database: {dsn: "u@tcp(db)/x", password: p}
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(context.Background(), writeConf(t, body), nil); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
