package internal

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, index VectorIndex) *httptest.Server {
	t.Helper()

	svc, _ := newTestService(index)
	ts := httptest.NewServer(NewServer(svc, log.New(io.Discard, "", 0)).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postMemory(t *testing.T, ts *httptest.Server, entry MemoryEntry) createResponse {
	t.Helper()

	body, _ := json.Marshal(entry)
	resp, err := http.Post(ts.URL+"/memory", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var res createResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func TestServerCreateMemory(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	res := postMemory(t, ts, MemoryEntry{
		Project:  "myproject",
		Category: "debugging",
		Tags:     []string{"auth"},
		Content:  "# Token expiry\n\nTokens expire after 24h.",
	})

	if len(res.ID) != IDLength {
		t.Errorf("id = %q", res.ID)
	}
	if !res.Indexed {
		t.Error("expected indexed=true")
	}
	if !strings.Contains(res.Message, "vector indexing") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestServerCreateFileOnly(t *testing.T) {
	ts := newTestServer(t, nil)

	res := postMemory(t, ts, MemoryEntry{Project: "p", Category: "other", Content: "x"})
	if res.Indexed {
		t.Error("expected indexed=false without an index")
	}
	if !strings.Contains(res.Message, "file only") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestServerCreateInvalid(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	body, _ := json.Marshal(MemoryEntry{Project: "", Category: "other", Content: "x"})
	resp, err := http.Post(ts.URL+"/memory", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Error == "" {
		t.Error("expected error message in body")
	}
}

func TestServerGetMemory(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	created := postMemory(t, ts, MemoryEntry{Project: "p", Category: "other", Content: "# note\n\nbody"})

	resp, err := http.Get(ts.URL + "/memory/" + created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var res getResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ID != created.ID {
		t.Errorf("id = %q, want %q", res.ID, created.ID)
	}
	if res.Entry.Content != "# note\n\nbody" {
		t.Errorf("content = %q", res.Entry.Content)
	}
}

func TestServerGetNotFound(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	resp, err := http.Get(ts.URL + "/memory/ffffffffffff")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestServerList(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	postMemory(t, ts, MemoryEntry{Project: "alpha", Category: "other", Content: "# a\n\nbody"})
	postMemory(t, ts, MemoryEntry{Project: "beta", Category: "other", Content: "# b\n\nbody"})

	resp, err := http.Get(ts.URL + "/memory?project=alpha")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var res listResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("total = %d, want 1", res.Total)
	}
	if res.ProjectFilter != "alpha" {
		t.Errorf("project filter = %q", res.ProjectFilter)
	}
	if len(res.Memories) != 1 || res.Memories[0].Project != "alpha" {
		t.Errorf("memories = %+v", res.Memories)
	}
}

func TestServerListBadLimit(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	resp, err := http.Get(ts.URL + "/memory?limit=zero")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestServerSearch(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	postMemory(t, ts, MemoryEntry{Project: "p", Category: "other", Content: "# searchable\n\nbody"})

	resp, err := http.Get(ts.URL + "/memory/search?query=searchable")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var res searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Query != "searchable" {
		t.Errorf("query = %q", res.Query)
	}
	if res.Total != 1 || len(res.Results) != 1 {
		t.Errorf("total = %d, results = %d", res.Total, len(res.Results))
	}
}

func TestServerSearchMissingQuery(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	resp, err := http.Get(ts.URL + "/memory/search")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestServerSearchNoIndex(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/memory/search?query=anything")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestServerUpdate(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	created := postMemory(t, ts, MemoryEntry{Project: "p", Category: "other", Content: "# note\n\nbody"})

	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/memory/"+created.ID, strings.NewReader(`{"outdated": true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	// The flag must be visible on a subsequent read.
	getResp, err := http.Get(ts.URL + "/memory/" + created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer getResp.Body.Close()

	var res getResponse
	if err := json.NewDecoder(getResp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Entry.Outdated {
		t.Error("outdated flag not persisted")
	}
}

func TestServerUpdateMissingField(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	created := postMemory(t, ts, MemoryEntry{Project: "p", Category: "other", Content: "x"})

	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/memory/"+created.ID, strings.NewReader(`{}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestServerStats(t *testing.T) {
	ts := newTestServer(t, newFakeIndex())

	postMemory(t, ts, MemoryEntry{Project: "p", Category: "other", Content: "x"})

	resp, err := http.Get(ts.URL + "/memory/stats/collection")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var stats IndexStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalMemories != 1 {
		t.Errorf("total = %d, want 1", stats.TotalMemories)
	}
}

func TestServerStatsNoIndex(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/memory/stats/collection")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}
