package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/config"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

func authConfig() config.Config {
	return config.Config{
		JWTSecret:        "test-secret",
		SessionTTL:       time.Hour,
		LineChannelID:    "1650000000",
		LineCallbackURL:  "https://app.example.com/auth/line/callback",
		LineAuthorizeURL: "https://access.line.me/oauth2/v2.1/authorize",
	}
}

func newAuthHandler(gas *gasapi.Client, cfg config.Config) AuthHandler {
	return AuthHandler{Service: &service.AuthService{
		Config:   cfg,
		Gas:      gas,
		Sessions: session.NewManager(session.NewMemoryStore(), cfg.SessionTTL),
		Logger:   discardLogger(),
	}}
}

type authPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"user"`
}

func TestDemoLogin(t *testing.T) {
	h := newAuthHandler(gasapi.New(""), authConfig())

	rec := serve(h.RegisterRoutes, nil, http.MethodPost, "/auth/demo", `{"role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var p authPayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &p))
	require.NotEmpty(t, p.AccessToken)
	require.Equal(t, "Bearer", p.TokenType)
	require.Equal(t, "admin", p.User.Role)
	require.Equal(t, "中山社長", p.User.Name)

	rec = serve(h.RegisterRoutes, nil, http.MethodPost, "/auth/demo", `{"role":"owner"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLineLoginSetsStateCookie(t *testing.T) {
	h := newAuthHandler(gasapi.New(""), authConfig())

	rec := serve(h.RegisterRoutes, nil, http.MethodGet, "/auth/line/login", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, stateCookie, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.NotEmpty(t, cookies[0].Value)

	var body map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &body))
	require.Contains(t, body["url"], "state="+cookies[0].Value)
}

func TestLineLoginNotConfigured(t *testing.T) {
	cfg := authConfig()
	cfg.LineCallbackURL = ""
	h := newAuthHandler(gasapi.New(""), cfg)

	rec := serve(h.RegisterRoutes, nil, http.MethodGet, "/auth/line/login", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func callback(h AuthHandler, target, storedState string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if storedState != "" {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: storedState})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLineCallbackWithoutStoredState(t *testing.T) {
	_, gas := newStubGAS(t, map[string]string{
		gasapi.ActionLineTokenExchange: `{"success":true,"data":{"id_token":"x"}}`,
	})
	h := newAuthHandler(gas, authConfig())

	rec := callback(h, "/auth/line/callback?code=c&state=s1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "認証状態が一致しません。再度ログインしてください。", env.Error.Message)
	require.Equal(t, string(service.CallbackFailed), env.Message)
}

func TestLineCallbackAuthenticates(t *testing.T) {
	stub, gas := newStubGAS(t, map[string]string{
		gasapi.ActionLineTokenExchange: `{"success":true,"data":{"id_token":"line-id-token"}}`,
		gasapi.ActionCreateSession:     `{"success":true,"data":{"session_token":"gas-session","user":{"id":7,"name":"佐藤","role":"sales"}}}`,
	})
	h := newAuthHandler(gas, authConfig())

	rec := callback(h, "/auth/line/callback?code=c&state=s1", "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	var p authPayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &p))
	require.Equal(t, "7", p.User.ID)
	require.NotEmpty(t, p.AccessToken)
	require.Equal(t, "line-id-token", stub.lastPost(gasapi.ActionCreateSession)["id_token"])

	// the state cookie is cleared after use
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}

func TestLineCallbackProviderDenied(t *testing.T) {
	h := newAuthHandler(gasapi.New(""), authConfig())

	rec := callback(h, "/auth/line/callback?error=access_denied&error_description=cancelled", "s1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "LINE認証がキャンセルされました: cancelled", decodeEnvelope(t, rec).Error.Message)
}
