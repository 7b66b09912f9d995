package service

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
)

type reply func(q url.Values, data map[string]any) (int, string)

// fakeBackend answers remote actions from canned replies and records what
// it was sent.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]reply
	calls  map[string]int
	posted map[string][]map[string]any
	tokens map[string]string
	query  map[string]url.Values
}

func newFakeBackend(t *testing.T) (*fakeBackend, *gasapi.Client) {
	t.Helper()
	f := &fakeBackend{
		routes: map[string]reply{},
		calls:  map[string]int{},
		posted: map[string][]map[string]any{},
		tokens: map[string]string{},
		query:  map[string]url.Values{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, gasapi.New(srv.URL, gasapi.WithHTTPClient(srv.Client()), gasapi.WithLogger(discardLogger()))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	var (
		action, token string
		data          map[string]any
	)
	q := r.URL.Query()
	if r.Method == http.MethodPost {
		var body struct {
			Action string         `json:"action"`
			Token  string         `json:"token"`
			Data   map[string]any `json:"data"`
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		action, token, data = body.Action, body.Token, body.Data
	} else {
		action, token = q.Get("action"), q.Get("token")
	}

	f.mu.Lock()
	f.calls[action]++
	f.tokens[action] = token
	f.query[action] = q
	if data != nil {
		f.posted[action] = append(f.posted[action], data)
	}
	route, ok := f.routes[action]
	f.mu.Unlock()

	if !ok {
		_, _ = w.Write([]byte(`{"success":false,"error":"unknown action"}`))
		return
	}
	status, body := route(q, data)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakeBackend) on(action, body string) {
	f.handle(action, func(url.Values, map[string]any) (int, string) { return http.StatusOK, body })
}

func (f *fakeBackend) handle(action string, r reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[action] = r
}

func (f *fakeBackend) count(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[action]
}

func (f *fakeBackend) lastPost(action string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.posted[action]
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

func (f *fakeBackend) tokenFor(action string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[action]
}

func (f *fakeBackend) lastQuery(action string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query[action]
}
