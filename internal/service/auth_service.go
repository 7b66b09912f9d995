package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/config"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

var (
	ErrLineNotConfigured = errors.New("line login is not configured")
	ErrStateMismatch     = errors.New("oauth state mismatch")
	ErrProviderDenied    = errors.New("identity provider returned an error")
	ErrMissingCode       = errors.New("no authorization code")
)

const lineIssuer = "https://access.line.me"

type AuthService struct {
	Config   config.Config
	Gas      *gasapi.Client
	Sessions *session.Manager
	Logger   *slog.Logger
}

type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Session     session.Session
}

type LoginRedirect struct {
	URL   string
	State string
}

// LineLoginURL builds the provider authorize URL with a fresh state nonce.
// The caller stores State and hands it back to Callback.
func (s AuthService) LineLoginURL() (LoginRedirect, error) {
	if !s.Config.LineConfigured() {
		return LoginRedirect{}, ErrLineNotConfigured
	}
	state := uuid.NewString()
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", s.Config.LineChannelID)
	q.Set("redirect_uri", s.Config.LineCallbackURL)
	q.Set("state", state)
	q.Set("scope", "profile openid")
	return LoginRedirect{URL: s.Config.LineAuthorizeURL + "?" + q.Encode(), State: state}, nil
}

type CallbackState string

const (
	CallbackAwaitingCode  CallbackState = "awaiting_code"
	CallbackFailed        CallbackState = "failed"
	CallbackAuthenticated CallbackState = "authenticated"
)

type CallbackInput struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// CallbackResult is a terminal state of the login callback. Message is the
// user-facing text for Failed.
type CallbackResult struct {
	State   CallbackState
	Message string
	Err     error
	Auth    *AuthResult
}

func failed(err error, message string) CallbackResult {
	return CallbackResult{State: CallbackFailed, Err: err, Message: message}
}

// Callback completes LINE login. storedState is the nonce issued by
// LineLoginURL; an empty storedState never matches.
func (s AuthService) Callback(ctx context.Context, in CallbackInput, storedState string) CallbackResult {
	if in.Error != "" {
		desc := in.ErrorDescription
		if desc == "" {
			desc = in.Error
		}
		return failed(ErrProviderDenied, "LINE認証がキャンセルされました: "+desc)
	}
	if in.Code == "" {
		return failed(ErrMissingCode, "認証コードが取得できませんでした")
	}
	if storedState == "" || in.State != storedState {
		return failed(ErrStateMismatch, "認証状態が一致しません。再度ログインしてください。")
	}

	exchanged, err := s.Gas.LineTokenExchange(ctx, in.Code, s.Config.LineCallbackURL)
	if err != nil {
		s.Logger.Warn("line token exchange failed", "err", err)
		return failed(err, "トークン交換に失敗しました: "+gasapi.Message(err))
	}
	if exchanged.IDToken == "" {
		return failed(ErrInvalidToken, "トークン交換に失敗しました: 不明なエラー")
	}
	if err := s.verifyIDToken(exchanged.IDToken); err != nil {
		s.Logger.Warn("line id token rejected", "err", err)
		return failed(err, "トークン交換に失敗しました: "+err.Error())
	}

	user, token, err := s.establish(ctx, exchanged.IDToken)
	if err != nil {
		return failed(err, "ユーザー情報の取得に失敗しました: "+gasapi.Message(err))
	}

	res, err := s.login(ctx, user, token)
	if err != nil {
		return failed(err, "ログイン処理中にエラーが発生しました: "+err.Error())
	}
	return CallbackResult{State: CallbackAuthenticated, Auth: res}
}

// establish trades the identity token for an application session. When the
// grant carries no profile the user info action fills it in.
func (s AuthService) establish(ctx context.Context, idToken string) (domain.User, string, error) {
	grant, err := s.Gas.CreateSession(ctx, idToken)
	if err != nil {
		return domain.User{}, "", err
	}
	token := grant.SessionToken
	if token == "" {
		token = idToken
	}
	if grant.User.ID != "" {
		return grant.User, token, nil
	}
	info, err := s.Gas.GetUserInfo(gasapi.WithToken(ctx, token))
	if err != nil {
		return domain.User{}, "", err
	}
	if info.ID == "" {
		return domain.User{}, "", gasapi.ErrNoData
	}
	return domain.User{
		ID:        info.ID,
		Name:      info.Name,
		Role:      info.Role,
		Email:     info.Email,
		AvatarURL: info.AvatarURL,
		Status:    domain.UserActive,
	}, token, nil
}

// verifyIDToken checks signature, audience and issuer of a LINE ID token.
// Without a channel secret the token is trusted as returned by the backend.
func (s AuthService) verifyIDToken(idToken string) error {
	if s.Config.LineChannelSecret == "" {
		return nil
	}
	_, err := jwt.Parse(idToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.Config.LineChannelSecret), nil
	},
		jwt.WithAudience(s.Config.LineChannelID),
		jwt.WithIssuer(lineIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

func (s AuthService) LoginAsDemo(ctx context.Context, role string) (*AuthResult, error) {
	user, token, ok := session.DemoUser(role)
	if !ok {
		return nil, session.ErrUnknownDemoRole
	}
	return s.login(ctx, user, token)
}

func (s AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.Sessions.Logout(ctx, sessionID)
}

// Authenticate resolves a bearer access token to its live session.
func (s AuthService) Authenticate(ctx context.Context, accessToken string) (session.Session, error) {
	token, err := jwt.Parse(accessToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return session.Session{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != "access" {
		return session.Session{}, ErrInvalidToken
	}
	sid, _ := claims["sid"].(string)
	sess, err := s.Sessions.Hydrate(ctx, sid)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return session.Session{}, ErrInvalidToken
		}
		return session.Session{}, err
	}
	if !sess.IsAuthenticated() {
		return session.Session{}, ErrInvalidToken
	}
	return sess, nil
}

func (s AuthService) login(ctx context.Context, user domain.User, token string) (*AuthResult, error) {
	sess, err := s.Sessions.Login(ctx, user, token)
	if err != nil {
		return nil, err
	}
	return s.issueToken(sess)
}

func (s AuthService) issueToken(sess session.Session) (*AuthResult, error) {
	now := time.Now()
	exp := sess.ExpiresAt
	if exp.IsZero() {
		exp = now.Add(s.Config.SessionTTL)
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        sess.User.ID.String(),
		"sid":        sess.ID,
		"role":       sess.User.Role,
		"token_type": "access",
		"exp":        exp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: access, ExpiresAt: exp, Session: sess}, nil
}
