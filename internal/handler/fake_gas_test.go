package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/server/authctx"
)

// stubGAS answers remote actions with canned bodies and keeps the last
// payload posted per action.
type stubGAS struct {
	mu      sync.Mutex
	replies map[string]string
	posted  map[string]map[string]any
	tokens  map[string]string
}

func newStubGAS(t *testing.T, replies map[string]string) (*stubGAS, *gasapi.Client) {
	t.Helper()
	s := &stubGAS{replies: replies, posted: map[string]map[string]any{}, tokens: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(srv.Close)
	return s, gasapi.New(srv.URL, gasapi.WithHTTPClient(srv.Client()), gasapi.WithLogger(discardLogger()))
}

func (s *stubGAS) serve(w http.ResponseWriter, r *http.Request) {
	action, token := r.URL.Query().Get("action"), r.URL.Query().Get("token")
	var body struct {
		Action string         `json:"action"`
		Token  string         `json:"token"`
		Data   map[string]any `json:"data"`
	}
	if r.Method == http.MethodPost {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		action, token = body.Action, body.Token
	}
	s.mu.Lock()
	s.tokens[action] = token
	if body.Data != nil {
		s.posted[action] = body.Data
	}
	reply, ok := s.replies[action]
	s.mu.Unlock()
	if !ok {
		reply = `{"success":false,"error":"unknown action"}`
	}
	_, _ = w.Write([]byte(reply))
}

func (s *stubGAS) lastPost(action string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posted[action]
}

func (s *stubGAS) tokenFor(action string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[action]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var salesUser = authctx.CurrentUser{
	ID:        "3",
	Name:      "山田太郎",
	Email:     "yamada@example.com",
	Role:      domain.RoleSales,
	SessionID: "sid-1",
	Version:   1,
	Token:     "demo_token_sales",
}

// serve routes one request through a fresh chi router. A non-nil user is
// attached the way the auth middleware would.
func serve(register func(chi.Router), user *authctx.CurrentUser, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	if user != nil {
		u := *user
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := authctx.WithCurrentUser(req.Context(), u)
				next.ServeHTTP(w, req.WithContext(gasapi.WithToken(ctx, u.Token)))
			})
		})
	}
	register(r)

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd).WithContext(context.Background())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}
