//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

const pageSize = 20

// FakeAPI serves canned search, video and emoji endpoints and records search offsets
type FakeAPI struct {
	srv *httptest.Server

	mu      sync.Mutex
	total   int
	offsets []int
	queries []string
	fail    bool
}

type fakeResult struct {
	ID          string `json:"id"`
	VideoID     string `json:"videoId"`
	VideoTitle  string `json:"videoTitle"`
	Author      string `json:"author"`
	Datetime    string `json:"datetime"`
	ElapsedTime string `json:"elapsedTime"`
	Message     string `json:"message"`
	Type        string `json:"type"`
}

// StartFakeAPI starts a fake API whose searches match total messages.
// The query "nothing" matches none.
func (tf *TUITestFramework) StartFakeAPI(total int) *FakeAPI {
	api := &FakeAPI{total: total}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", api.search)
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"videos": []map[string]string{
			{"videoId": "vid-morning", "title": "Morning stream", "actualStartTime": "2024-05-01T09:00:00Z"},
			{"videoId": "vid-night", "title": "Night stream", "actualStartTime": "2024-05-02T21:00:00Z"},
		}})
	})
	mux.HandleFunc("/emojis.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{":otsu:": "https://example.com/otsu.png"})
	})

	api.srv = httptest.NewServer(mux)
	tf.api = api
	return api
}

func (a *FakeAPI) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("from_"))

	a.mu.Lock()
	a.offsets = append(a.offsets, offset)
	a.queries = append(a.queries, q.Get("q"))
	total, fail := a.total, a.fail
	a.mu.Unlock()

	if fail {
		http.Error(w, "backend down", http.StatusBadGateway)
		return
	}
	if q.Get("q") == "nothing" {
		total = 0
	}

	results := []fakeResult{}
	for i := offset; i < total && i < offset+pageSize; i++ {
		results = append(results, fakeResult{
			ID:          strconv.Itoa(i),
			VideoID:     "vid-morning",
			VideoTitle:  "Morning stream",
			Author:      "alice",
			Datetime:    "2024-05-01T09:10:00Z",
			ElapsedTime: "0:10:00",
			Message:     fmt.Sprintf("%s message %d", q.Get("q"), i),
			Type:        "chat",
		})
	}
	writeJSON(w, map[string]any{"total": total, "results": results})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// URL is the base URL to point the client at
func (a *FakeAPI) URL() string {
	return a.srv.URL
}

// Offsets returns every search offset requested so far
func (a *FakeAPI) Offsets() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.offsets...)
}

// SetFailing makes subsequent searches return 502
func (a *FakeAPI) SetFailing(fail bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fail = fail
}

// Close stops the server
func (a *FakeAPI) Close() {
	a.srv.Close()
}
