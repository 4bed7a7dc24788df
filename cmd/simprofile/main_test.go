package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/simprofile/internal/api"
)

// fakeAPI serves the websim API for the user alice.
type fakeAPI struct {
	// failFollowing makes the following list fail.
	failFollowing bool

	mu       sync.Mutex
	comments map[string]api.Comment
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case r.URL.Path == "/api/v1/users/alice/followers" && q.Get("count") == "true":
		_, _ = io.WriteString(w, `{"followers":{"meta":{"count":2}}}`)
	case r.URL.Path == "/api/v1/users/alice/following" && q.Get("count") == "true":
		_, _ = io.WriteString(w, `{"following":{"meta":{"count":1}}}`)
	case r.URL.Path == "/api/v1/users/alice/followers":
		_, _ = io.WriteString(w, `{"followers":{"data":[
			{"cursor":"1","follow":{"user":{"username":"bob"}}},
			{"cursor":"2","follow":{"user":{"username":"carol","is_admin":true}}}
		],"meta":{"has_next_page":false}}}`)
	case r.URL.Path == "/api/v1/users/alice/following":
		if f.failFollowing {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"following":{"data":[
			{"cursor":"1","follow":{"user":{"username":"dave"}}}
		],"meta":{"has_next_page":false}}}`)
	case r.URL.Path == "/api/v1/users/alice/projects":
		_, _ = io.WriteString(w, `{"projects":{"data":[
			{"project":{"id":"old","slug":"old","title":"Old Game","updated_at":"2024-01-01T00:00:00Z","stats":{"views":50}},"project_revision":{}},
			{"project":{"id":"home","slug":"alice-profile"},"project_revision":{}},
			{"project":{"id":"new","slug":"new","title":"New Game","updated_at":"2025-01-01T00:00:00Z","stats":{"views":10}},"project_revision":{}}
		],"meta":{"has_next_page":false}}}`)
	case r.URL.Path == "/api/v1/projects/old/stats":
		_, _ = io.WriteString(w, `{"total_tip_amount":5}`)
	case r.URL.Path == "/api/v1/projects/new/stats":
		_, _ = io.WriteString(w, `{"total_tip_amount":500}`)
	case r.URL.Path == "/api/v1/projects/broken/comments":
		http.Error(w, "boom", http.StatusInternalServerError)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/comments"):
		var c api.Comment
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.comments[r.URL.Path] = c
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) comment(path string) (api.Comment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[path]
	return c, ok
}

func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	t.Helper()

	fake := &fakeAPI{comments: make(map[string]api.Comment)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, srv.URL
}

// lockedBuffer is a bytes.Buffer safe for the concurrent writes of batch
// loads and their loggers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runRoot executes the root command with args and returns stdout and stderr.
func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr lockedBuffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
