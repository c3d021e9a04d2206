package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gatherhq/gather/internal/model"
)

// doRequest performs a request against the handler and decodes the JSON body
// into out (when out is non-nil).
func doRequest(t *testing.T, h http.Handler, method, path, caller string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return rec
}

func TestHTTPHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	rec := doRequest(t, h, http.MethodGet, "/v1/health", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
}

func TestHTTPAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.NewHTTPHandler("secret")

	// Health is exempt.
	rec := doRequest(t, h, http.MethodGet, "/v1/health", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health with auth enabled = %d, want 200", rec.Code)
	}

	// Missing token.
	rec = doRequest(t, h, http.MethodGet, "/v1/events", "", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token = %d, want 401", rec.Code)
	}

	// Wrong token.
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", rr.Code)
	}

	// Valid token.
	req = httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", rr.Code)
	}
}

func TestHTTPCreateEvent(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	var created model.Event
	rec := doRequest(t, h, http.MethodPost, "/v1/events", "alice",
		model.EventPayload{Title: "Launch", Location: "HQ"}, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	if created.ID != 1 || created.Owner != "alice" || created.Title != "Launch" {
		t.Errorf("created = %+v", created)
	}

	// Missing title.
	rec = doRequest(t, h, http.MethodPost, "/v1/events", "alice", model.EventPayload{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", rec.Code)
	}

	// Missing caller.
	rec = doRequest(t, h, http.MethodPost, "/v1/events", "", model.EventPayload{Title: "x"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing caller status = %d, want 400", rec.Code)
	}

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader("{not json"))
	req.Header.Set(callerHeader, "alice")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rr.Code)
	}
}

func TestHTTPGetEvent(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	doRequest(t, h, http.MethodPost, "/v1/events", "alice", model.EventPayload{Title: "Launch"}, nil)

	var got model.Event
	rec := doRequest(t, h, http.MethodGet, "/v1/events/1", "", nil, &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got.Title != "Launch" {
		t.Errorf("got = %+v", got)
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/events/99", "", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent id status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/events/banana", "", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestHTTPStatusCodes(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	doRequest(t, h, http.MethodPost, "/v1/events", "alice", model.EventPayload{Title: "Launch"}, nil)
	doRequest(t, h, http.MethodPost, "/v1/events/1/attend", "bob", nil, nil)

	for _, tc := range []struct {
		name   string
		method string
		path   string
		caller string
		body   any
		want   int
	}{
		{"UpdateByNonOwner", http.MethodPatch, "/v1/events/1", "bob", model.EventPayload{Title: "x"}, http.StatusForbidden},
		{"UpdateAbsent", http.MethodPatch, "/v1/events/99", "alice", model.EventPayload{Title: "x"}, http.StatusNotFound},
		{"AttendTwice", http.MethodPost, "/v1/events/1/attend", "bob", nil, http.StatusConflict},
		{"AttendAbsent", http.MethodPost, "/v1/events/99/attend", "bob", nil, http.StatusNotFound},
		{"DeleteByNonOwner", http.MethodDelete, "/v1/events/1", "bob", nil, http.StatusForbidden},
		{"DeleteAbsent", http.MethodDelete, "/v1/events/99", "alice", nil, http.StatusNotFound},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, tc.method, tc.path, tc.caller, tc.body, nil)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestHTTPListEvents(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	var list struct {
		Events []*model.Event `json:"events"`
		Total  int            `json:"total"`
	}
	rec := doRequest(t, h, http.MethodGet, "/v1/events", "", nil, &list)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if list.Events == nil || list.Total != 0 {
		t.Errorf("empty list = %+v, want [] with total 0", list)
	}

	doRequest(t, h, http.MethodPost, "/v1/events", "alice", model.EventPayload{Title: "a"}, nil)
	doRequest(t, h, http.MethodPost, "/v1/events", "alice", model.EventPayload{Title: "b"}, nil)

	rec = doRequest(t, h, http.MethodGet, "/v1/events", "", nil, &list)
	if rec.Code != http.StatusOK || list.Total != 2 {
		t.Errorf("list = %+v, want total 2", list)
	}
}

// TestHTTPDeleteReturnsRecord verifies the delete response carries the last
// stored record, attendees included.
func TestHTTPDeleteReturnsRecord(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.NewHTTPHandler("")

	doRequest(t, h, http.MethodPost, "/v1/events", "alice", model.EventPayload{Title: "Launch"}, nil)
	doRequest(t, h, http.MethodPost, "/v1/events/1/attend", "bob", nil, nil)

	var removed model.Event
	rec := doRequest(t, h, http.MethodDelete, "/v1/events/1", "alice", nil, &removed)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if removed.Title != "Launch" || len(removed.Attendees) != 1 || removed.Attendees[0] != "bob" {
		t.Errorf("removed = %+v", removed)
	}
}
