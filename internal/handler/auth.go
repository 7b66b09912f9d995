package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/server/authctx"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

const (
	stateCookie    = "lapin_line_state"
	stateCookieTTL = 10 * time.Minute
)

type AuthHandler struct {
	Service       *service.AuthService
	SecureCookies bool
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/auth/line/login", h.lineLogin)
	r.Get("/auth/line/callback", h.lineCallback)
	r.Post("/auth/demo", h.demoLogin)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)
}

func (h AuthHandler) lineLogin(w http.ResponseWriter, r *http.Request) {
	redirect, err := h.Service.LineLoginURL()
	if err != nil {
		if errors.Is(err, service.ErrLineNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "LINEログインが設定されていません")
			return
		}
		writeServiceError(w, err)
		return
	}
	h.setStateCookie(w, redirect.State, int(stateCookieTTL.Seconds()))
	if r.URL.Query().Get("redirect") == "1" {
		http.Redirect(w, r, redirect.URL, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": redirect.URL})
}

func (h AuthHandler) lineCallback(w http.ResponseWriter, r *http.Request) {
	var stored string
	if c, err := r.Cookie(stateCookie); err == nil {
		stored = c.Value
	}
	// the nonce is single use whatever the outcome
	h.setStateCookie(w, "", -1)

	q := r.URL.Query()
	res := h.Service.Callback(r.Context(), service.CallbackInput{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}, stored)

	if res.State != service.CallbackAuthenticated {
		writeRawJSON(w, callbackStatus(res.Err), apiResponse{
			Error:   &apiError{Code: "LINE_AUTH_FAILED", Message: res.Message},
			Message: string(res.State),
		})
		return
	}
	writeAuthResponse(w, res.Auth)
}

func callbackStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrProviderDenied),
		errors.Is(err, service.ErrMissingCode),
		errors.Is(err, service.ErrStateMismatch):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}

func (h AuthHandler) demoLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.LoginAsDemo(r.Context(), req.Role)
	if err != nil {
		if errors.Is(err, session.ErrUnknownDemoRole) {
			writeError(w, http.StatusBadRequest, "不明なデモロールです")
			return
		}
		writeServiceError(w, err)
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.Service.Logout(r.Context(), user.SessionID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "ログアウトしました")
}

func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sess, err := h.Service.Sessions.Hydrate(r.Context(), user.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       sess.User,
		"expires_at": sess.ExpiresAt,
	})
}

func (h AuthHandler) setStateCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    value,
		Path:     "/auth/line",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeAuthResponse(w http.ResponseWriter, res *service.AuthResult) {
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   res.ExpiresAt,
		"user":         res.Session.User,
	})
}
