package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slowShowServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /3/tv/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "1" {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		fmt.Fprintf(w, `{"id":%s,"name":"Show %s"}`, r.PathValue("id"), r.PathValue("id"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestUpstream_CanceledCallsDontOpenBreaker(t *testing.T) {
	srv := slowShowServer(t, 200*time.Millisecond)
	tm := NewTMDB(TMDBConfig{BaseURI: srv.URL + "/3", APIKey: "k"}, Options{HTTPClient: srv.Client(), Timeout: time.Second})

	var wg sync.WaitGroup
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithCancel(context.Background())
			time.AfterFunc(10*time.Millisecond, cancel)

			_, err := tm.Show(ctx, 1)
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	show, err := tm.Show(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Show 2", show.Name)
}

func TestUpstream_TimeoutsOpenBreaker(t *testing.T) {
	srv := slowShowServer(t, 200*time.Millisecond)
	tm := NewTMDB(TMDBConfig{BaseURI: srv.URL + "/3", APIKey: "k"}, Options{HTTPClient: srv.Client(), Timeout: 10 * time.Millisecond})

	for range 12 {
		_, err := tm.Show(context.Background(), 1)
		require.Error(t, err)
	}

	_, err := tm.Show(context.Background(), 2)
	assert.ErrorContains(t, err, "circuit breaker is open")
}
