// internal/component/registry_test.go

package component

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fake struct {
	name    string
	initErr error
	inited  bool
}

func (f *fake) Name() string         { return f.name }
func (f *fake) Migrations() []string { return []string{"DDL " + f.name} }

func (f *fake) Init(Env) error {
	f.inited = true
	return f.initErr
}

func (f *fake) Routes(r chi.Router) {
	r.Get("/"+f.name, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(f.name))
	})
}

func TestSetup(t *testing.T) {
	a, b := &fake{name: "a"}, &fake{name: "b"}
	r := chi.NewRouter()
	if err := Setup(r, Env{}, []Component{a, b}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !a.inited || !b.inited {
		t.Fatalf("Init not called")
	}
	for _, p := range []string{"/a", "/b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))
		if rr.Code != http.StatusOK || rr.Body.String() != p[1:] {
			t.Fatalf("%s → %d %q", p, rr.Code, rr.Body.String())
		}
	}
	if got := Migrations([]Component{a, b}); len(got) != 2 || got[1] != "DDL b" {
		t.Fatalf("Migrations = %v", got)
	}
}

func TestSetup_InitError(t *testing.T) {
	boom := errors.New("boom")
	err := Setup(chi.NewRouter(), Env{}, []Component{&fake{name: "x", initErr: boom}})
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "x" || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRegistry_Sorted(t *testing.T) {
	Register(&fake{name: "zz-test"})
	Register(&fake{name: "aa-test"})
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name() > all[i].Name() {
			t.Fatalf("All not sorted: %v then %v", all[i-1].Name(), all[i].Name())
		}
	}
}
