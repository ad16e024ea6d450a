package catalog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// fakeCatalogs serves both catalogs from one test server. Later pages and
// higher tvdb ids answer faster so completion order is the reverse of
// request order.
type fakeCatalogs struct {
	srv *httptest.Server

	failLogin   atomic.Bool
	failRefresh atomic.Bool
	refreshes   atomic.Int32
	seriesCalls atomic.Int32
	tmdbCalls   atomic.Int32

	mu         sync.Mutex
	bearers    []string
	seriesIDAs map[int]int // requested tvdb id -> id put in the response
}

func newFakeCatalogs(t *testing.T) *fakeCatalogs {
	t.Helper()

	f := &fakeCatalogs{seriesIDAs: map[int]int{}}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /3/genre/tv/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"genres": []map[string]any{
				{"id": 1, "name": "Drama"},
				{"id": 2, "name": "Comedy"},
			},
		})
	})

	page := func(w http.ResponseWriter, r *http.Request) {
		f.tmdbCalls.Add(1)

		p, _ := strconv.Atoi(r.URL.Query().Get("page"))
		time.Sleep(time.Duration(5-p) * 15 * time.Millisecond)

		writeJSON(w, map[string]any{
			"page": p,
			"results": []map[string]any{
				{"id": p*10 + 1, "name": r.URL.Query().Get("query"), "genre_ids": []int{2, 1, 99}},
				{"id": p*10 + 2, "name": "second", "genre_ids": []int{}},
			},
		})
	}
	mux.HandleFunc("GET /3/discover/tv", page)
	mux.HandleFunc("GET /3/search/tv", page)

	mux.HandleFunc("GET /3/tv/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.tmdbCalls.Add(1)

		id, _ := strconv.Atoi(r.PathValue("id"))
		if id >= 500 {
			http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
			return
		}

		tvdbID := id * 100
		if id == 4 {
			tvdbID = 0
		}

		writeJSON(w, map[string]any{
			"id":           id,
			"name":         fmt.Sprintf("Show %d", id),
			"external_ids": map[string]any{"tvdb_id": tvdbID},
		})
	})

	mux.HandleFunc("POST /tvdb/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		if f.failLogin.Load() || body["apikey"] != "key" {
			writeJSON(w, map[string]any{"token": ""})
			return
		}

		writeJSON(w, map[string]any{"token": "login-token"})
	})

	mux.HandleFunc("GET /tvdb/refresh_token", func(w http.ResponseWriter, r *http.Request) {
		if f.failRefresh.Load() || r.Header.Get("Authorization") == "" {
			http.Error(w, "nope", http.StatusUnauthorized)
			return
		}

		n := f.refreshes.Add(1)
		writeJSON(w, map[string]any{"token": fmt.Sprintf("refreshed-%d", n)})
	})

	mux.HandleFunc("GET /tvdb/series/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.seriesCalls.Add(1)

		id, _ := strconv.Atoi(r.PathValue("id"))
		time.Sleep(time.Duration(max(0, 400-id)/100) * 20 * time.Millisecond)

		f.mu.Lock()
		f.bearers = append(f.bearers, r.Header.Get("Authorization"))
		respID, ok := f.seriesIDAs[id]
		f.mu.Unlock()

		if !ok {
			respID = id
		}

		writeJSON(w, map[string]any{
			"data": map[string]any{
				"id":            respID,
				"airsDayOfWeek": fmt.Sprintf("Day-%d", id),
				"airsTime":      fmt.Sprintf("%d:00", id/100),
			},
		})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	return f
}

func (f *fakeCatalogs) tmdb() *TMDB {
	return NewTMDB(TMDBConfig{BaseURI: f.srv.URL + "/3", APIKey: "tmdb"}, Options{HTTPClient: f.srv.Client()})
}

func (f *fakeCatalogs) tvdb() *TVDB {
	return NewTVDB(TVDBConfig{
		APIKey:     "key",
		UserKey:    "user",
		Username:   "name",
		LoginURI:   f.srv.URL + "/tvdb/login",
		RefreshURI: f.srv.URL + "/tvdb/refresh_token",
		SeriesURI:  f.srv.URL + "/tvdb/series",
	}, Options{HTTPClient: f.srv.Client()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
