// README: HTTP surface tests over the full route table.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tripcover/internal/config"
	"tripcover/internal/modules/dialogue"
	"tripcover/internal/modules/extract"
	"tripcover/internal/modules/handoff"
	"tripcover/internal/modules/intent"
	"tripcover/internal/modules/session"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ex := extract.NewService(nil, nil, time.Second)
	ex.Now = func() time.Time {
		return time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)
	}
	dlg := dialogue.NewService(dialogue.Deps{
		Store:      session.NewMemoryStore(),
		Classifier: intent.NewService(nil, time.Second),
		Extractor:  ex,
		Questions:  dialogue.NewQuestionGenerator(nil, time.Second),
		Boundary:   handoff.NewService(nil),
	}, config.DialogueConfig{ConfidenceThreshold: 0.5})
	return NewServer(ServerDeps{Dialogue: dlg}).Routes()
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(context.Background()))
	return rec
}

func TestTurnEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := postJSON(t, h, "/api/chat/turn", `{"message":"I need a quote for a trip to Tokyo"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" || resp.Reply == "" {
		t.Fatalf("resp = %+v", resp)
	}

	// The generated session id is usable for the next turn.
	rec = postJSON(t, h, "/api/chat/turn",
		`{"session_id":"`+resp.SessionID+`","message":"Dec 15 to Dec 22"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second turn status = %d", rec.Code)
	}
}

func TestTurnEndpointRejectsBadInput(t *testing.T) {
	h := newTestServer(t)

	for name, body := range map[string]string{
		"empty message": `{"message":"  "}`,
		"broken json":   `{"message"`,
		"bad session":   `{"session_id":"../../x","message":"hello"}`,
	} {
		rec := postJSON(t, h, "/api/chat/turn", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestSessionEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session: status = %d, want 404", rec.Code)
	}

	rec = postJSON(t, h, "/api/chat/turn", `{"session_id":"s1","message":"quote please, trip to Spain"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("turn status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/s1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get session: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"session_id":"s1"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestDocumentEndpoint(t *testing.T) {
	h := newTestServer(t)

	postJSON(t, h, "/api/chat/turn", `{"session_id":"s1","message":"quote for a trip to Spain"}`)

	rec := postJSON(t, h, "/api/sessions/s1/documents",
		`{"departure_date":"2026-06-10","return_date":"2026-06-24"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("documents status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "2026-06-10") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	rec = postJSON(t, h, "/api/sessions/s1/documents", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty document: status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}
