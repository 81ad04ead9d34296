package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/inkwell/internal/importer"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/notefile"
	"github.com/starford/inkwell/internal/testutil"
	"github.com/starford/inkwell/internal/vault"
)

type apiEnv struct {
	server    *httptest.Server
	store     *vault.FS
	deviceDir string
}

func newAPIEnv(t *testing.T, authEnabled bool, token string) *apiEnv {
	t.Helper()

	_, store := testutil.TestVault(t)
	deviceDir, dev := testutil.TestDeviceRoot(t)
	db := testutil.TestJournal(t)

	imp := importer.New(store, dev, notefile.NewDecoder(), importer.Options{
		DailyNotesDir: "Daily",
		LinkToken:     "%%supernote-note%%",
		TextToken:     "%%supernote-text%%",
		Journal:       db,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	router := NewRouter(NewService(db, imp), authEnabled, token, nil)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &apiEnv{server: srv, store: store, deviceDir: deviceDir}
}

func doRequest(t *testing.T, method, url string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, body
}

func TestListImports_Empty(t *testing.T) {
	e := newAPIEnv(t, false, "")

	resp, body := doRequest(t, http.MethodGet, e.server.URL+"/imports", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out ImportListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Total != 0 || out.Imports == nil || len(out.Imports) != 0 {
		t.Errorf("response = %+v", out)
	}
}

func TestListImports_InvalidLimit(t *testing.T) {
	e := newAPIEnv(t, false, "")
	resp, _ := doRequest(t, http.MethodGet, e.server.URL+"/imports?limit=abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTriggerThenGet(t *testing.T) {
	e := newAPIEnv(t, false, "")
	if err := e.store.Write("Daily/2024-03-15.md", []byte("%%supernote-note%%\n%%supernote-text%%\n")); err != nil {
		t.Fatal(err)
	}
	testutil.WriteExport(t, e.deviceDir, "20240315", "recognized")

	resp, body := doRequest(t, http.MethodPost, e.server.URL+"/imports/2024-03-15", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trigger status = %d: %s", resp.StatusCode, body)
	}
	var trig TriggerResponse
	if err := json.Unmarshal(body, &trig); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if trig.Outcome == nil || trig.Outcome.Status != models.StatusImported {
		t.Fatalf("outcome = %+v", trig.Outcome)
	}

	// Both date forms address the same record.
	for _, date := range []string{"20240315", "2024-03-15"} {
		resp, body = doRequest(t, http.MethodGet, e.server.URL+"/imports/"+date, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get %s status = %d", date, resp.StatusCode)
		}
		var rec ImportRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if rec.Status != models.StatusImported || rec.DateKey != "20240315" {
			t.Errorf("record = %+v", rec)
		}
	}

	resp, body = doRequest(t, http.MethodGet, e.server.URL+"/imports", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var out ImportListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Total != 1 {
		t.Errorf("total = %d, want 1", out.Total)
	}
}

func TestTrigger_MissingDailyNoteIsSkip(t *testing.T) {
	e := newAPIEnv(t, false, "")

	resp, body := doRequest(t, http.MethodPost, e.server.URL+"/imports/2024-03-15", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var trig TriggerResponse
	if err := json.Unmarshal(body, &trig); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if trig.Outcome.Status != models.StatusSkipped {
		t.Errorf("outcome = %+v", trig.Outcome)
	}
}

func TestGetImport_InvalidDate(t *testing.T) {
	e := newAPIEnv(t, false, "")
	resp, _ := doRequest(t, http.MethodGet, e.server.URL+"/imports/not-a-date", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetImport_NotFound(t *testing.T) {
	e := newAPIEnv(t, false, "")
	resp, _ := doRequest(t, http.MethodGet, e.server.URL+"/imports/19990101", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAuth(t *testing.T) {
	e := newAPIEnv(t, true, "secret")

	resp, _ := doRequest(t, http.MethodGet, e.server.URL+"/imports", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no header: status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doRequest(t, http.MethodGet, e.server.URL+"/imports",
		map[string]string{"Authorization": "Bearer wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doRequest(t, http.MethodGet, e.server.URL+"/imports",
		map[string]string{"Authorization": "Bearer secret"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", resp.StatusCode)
	}
}
