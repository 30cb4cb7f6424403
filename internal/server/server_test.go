package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dev-avwi/TradieTrack-sub007/internal/clients/timeapi"
	"github.com/dev-avwi/TradieTrack-sub007/internal/storage/memory"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
)

func newTestServer(t *testing.T, token string) (*httptest.Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	store.SeedJobs(
		timeentry.Job{Id: "job-1", Title: "Fence repair", ClientName: "H. Whitfield"},
		timeentry.Job{Id: "job-2", Title: "Deck build"},
	)

	srv := httptest.NewServer(New(store, store, token).Router())
	t.Cleanup(srv.Close)

	return srv, store
}

func doRequest(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("X-Api-Token", token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return res, data
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, "")

	res, data := doRequest(t, http.MethodGet, srv.URL+"/health", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if string(data) != "OK\n" {
		t.Errorf("body = %q", data)
	}
}

func TestAuthGuardsApiRoutes(t *testing.T) {
	srv, _ := newTestServer(t, "s3cret")

	res, _ := doRequest(t, http.MethodGet, srv.URL+"/api/v1/jobs", "", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("without token: status = %d, want 401", res.StatusCode)
	}

	res, _ = doRequest(t, http.MethodGet, srv.URL+"/api/v1/jobs", "wrong", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("with bad token: status = %d, want 401", res.StatusCode)
	}

	res, _ = doRequest(t, http.MethodGet, srv.URL+"/api/v1/jobs", "s3cret", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("with token: status = %d, want 200", res.StatusCode)
	}

	// Health stays open for probes.
	res, _ = doRequest(t, http.MethodGet, srv.URL+"/health", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health: status = %d, want 200", res.StatusCode)
	}
}

func TestActiveEntryEndpoint(t *testing.T) {
	srv, store := newTestServer(t, "")

	res, _ := doRequest(t, http.MethodGet, srv.URL+"/api/v1/users/user-1/entries/active", "", nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("no timer: status = %d, want 204", res.StatusCode)
	}

	created, err := store.CreateEntry(context.Background(), timeentry.CreateEntryRequest{
		UserId:    "user-1",
		JobId:     "job-1",
		StartTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, data := doRequest(t, http.MethodGet, srv.URL+"/api/v1/users/user-1/entries/active", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("with timer: status = %d, want 200", res.StatusCode)
	}

	var entry timeentry.TimeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Id != created.Id {
		t.Errorf("entry id = %s, want %s", entry.Id, created.Id)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	srv, _ := newTestServer(t, "")
	url := srv.URL + "/api/v1/entries"

	res, _ := doRequest(t, http.MethodPost, url, "", timeentry.CreateEntryRequest{JobId: "job-1"})
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("missing userId: status = %d, want 400", res.StatusCode)
	}

	res, _ = doRequest(t, http.MethodPost, url, "", timeentry.CreateEntryRequest{UserId: "user-1"})
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("missing jobId: status = %d, want 400", res.StatusCode)
	}
}

func TestCreateEntryConflictMapsTo409(t *testing.T) {
	srv, _ := newTestServer(t, "")
	url := srv.URL + "/api/v1/entries"

	req := timeentry.CreateEntryRequest{UserId: "user-1", JobId: "job-1", StartTime: time.Now()}

	res, _ := doRequest(t, http.MethodPost, url, "", req)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("first create: status = %d, want 201", res.StatusCode)
	}

	res, data := doRequest(t, http.MethodPost, url, "", req)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("second create: status = %d, want 409", res.StatusCode)
	}

	var body map[string]string
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("conflict response must carry an error message")
	}
}

func TestUpdateAndDeleteUnknownEntryMapTo404(t *testing.T) {
	srv, _ := newTestServer(t, "")

	res, _ := doRequest(t, http.MethodPatch, srv.URL+"/api/v1/entries/nope", "", timeentry.UpdateEntryRequest{
		EndTime:         time.Now(),
		DurationMinutes: 5,
	})
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("patch: status = %d, want 404", res.StatusCode)
	}

	res, _ = doRequest(t, http.MethodDelete, srv.URL+"/api/v1/entries/nope", "", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("delete: status = %d, want 404", res.StatusCode)
	}
}

func TestListEntriesRequiresWindow(t *testing.T) {
	srv, _ := newTestServer(t, "")

	res, _ := doRequest(t, http.MethodGet, srv.URL+"/api/v1/users/user-1/entries", "", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("no window: status = %d, want 400", res.StatusCode)
	}

	res, _ = doRequest(t, http.MethodGet,
		srv.URL+"/api/v1/users/user-1/entries?from=2024-03-01T00:00:00Z&to=bogus", "", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("bad to: status = %d, want 400", res.StatusCode)
	}

	res, data := doRequest(t, http.MethodGet,
		srv.URL+"/api/v1/users/user-1/entries?from=2024-03-01T00:00:00Z&to=2024-04-01T00:00:00Z", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("valid window: status = %d, want 200", res.StatusCode)
	}

	var entries []timeentry.TimeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want empty list", entries)
	}
}

// The api client and the server must agree on the wire format end to end.
func TestClientAgainstServer(t *testing.T) {
	srv, _ := newTestServer(t, "round-trip-token")

	client, err := timeapi.New(srv.URL+"/api/v1", "round-trip-token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	active, err := client.ActiveEntry(ctx, "user-1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active entry, got %+v", active)
	}

	start := time.Now().UTC().Truncate(time.Second)
	created, err := client.CreateEntry(ctx, timeentry.CreateEntryRequest{
		UserId:    "user-1",
		JobId:     "job-1",
		StartTime: start,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := client.CreateEntry(ctx, timeentry.CreateEntryRequest{
		UserId:    "user-1",
		JobId:     "job-2",
		StartTime: start,
	}); !errors.Is(err, timeentry.ErrConflict) {
		t.Fatalf("second create: expected ErrConflict, got %v", err)
	}

	active, err = client.ActiveEntry(ctx, "user-1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active == nil || active.Id != created.Id {
		t.Fatalf("active = %+v, want id %s", active, created.Id)
	}

	closed, err := client.UpdateEntry(ctx, created.Id, timeentry.UpdateEntryRequest{
		EndTime:         start.Add(10 * time.Minute),
		DurationMinutes: 10,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if closed.Open() || *closed.DurationMinutes != 10 {
		t.Fatalf("entry not closed: %+v", closed)
	}

	if err := client.DeleteEntry(ctx, created.Id); !errors.Is(err, timeentry.ErrNotFound) {
		t.Fatalf("delete closed entry: expected ErrNotFound, got %v", err)
	}

	entries, err := client.Entries(ctx, "user-1", timeentry.Range{
		From: start.Add(-time.Hour),
		To:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	jobs, err := client.Jobs(ctx)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}
}
