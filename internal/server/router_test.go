package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/whisperwork/crm/internal/models"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.ClientLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLivenessEndpoints(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("root: expected 200 got %d", w.Code)
	}
	var root map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &root); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if root["version"] == "" || !strings.Contains(root["message"], "running") {
		t.Fatalf("unexpected root body: %s", w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "healthy") {
		t.Fatalf("health: got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200 got %d", w.Code)
	}
}

// Full lifecycle through the router: create, conflict, archive, re-create.
func TestPhoneReuseAfterArchive(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/clients/", `{"name":"Jo","phone_number":"+351912345678"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Client
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = do(t, h, http.MethodPost, "/clients/", `{"name":"Joana","phone_number":"+351912345678"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409 got %d", w.Code)
	}

	w = do(t, h, http.MethodDelete, fmt.Sprintf("/clients/%d", created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("archive: expected 200 got %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/clients/", `{"name":"Joana","phone_number":"+351912345678"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("re-create after archive: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRoutingEdges(t *testing.T) {
	h := newTestServer(t)

	// non-numeric id
	w := do(t, h, http.MethodGet, "/clients/abc", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: expected 404 got %d", w.Code)
	}

	// create without trailing slash also works
	w = do(t, h, http.MethodPost, "/clients", `{"name":"Jo","phone_number":"+351912345678"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("no-slash create: expected 201 got %d", w.Code)
	}

	// search route with and without trailing slash
	for _, path := range []string{"/clients/search/?q=jo", "/clients/search?q=jo"} {
		w = do(t, h, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("search %s: expected 200 got %d", path, w.Code)
		}
	}
}

func TestMergeThroughRouter(t *testing.T) {
	h := newTestServer(t)

	do(t, h, http.MethodPost, "/clients/", `{"name":"Primary","phone_number":"+351910000001","address":"X"}`)
	do(t, h, http.MethodPost, "/clients/", `{"name":"Secondary","phone_number":"+351910000002","email":"y@z.com"}`)

	w := do(t, h, http.MethodPost, "/clients/merge", `{"primary_client_id":1,"secondary_client_id":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("merge: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/clients/2/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200 got %d", w.Code)
	}
	var logs []models.ClientLog
	if err := json.Unmarshal(w.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(logs) == 0 || logs[0].Action != "merged_into" {
		t.Fatalf("expected merged_into as newest entry: %#v", logs)
	}
}
