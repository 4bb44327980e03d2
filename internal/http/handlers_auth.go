package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/mmk-sso/internal/adapters/cookiejar"
	domainauth "github.com/target/mmk-sso/internal/domain/auth"
	apperrors "github.com/target/mmk-sso/internal/errors"
	"github.com/target/mmk-sso/internal/ports"
	"github.com/target/mmk-sso/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	ConfigStatus() (bool, []string)
	LoginURL(ctx context.Context) (string, error)
	CompleteLogin(ctx context.Context, sess *domainauth.Session, p ports.SessionPersistence, code string) error
	Restore(ctx context.Context, sess *domainauth.Session, p ports.SessionPersistence)
	Logout(ctx context.Context, sess *domainauth.Session, p ports.SessionPersistence)
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Pages   *PageHandlers
	Cookies cookiejar.Options
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// jar returns the request's cookie jar, creating one when the session
// middleware did not run.
func (h *AuthHandlers) jar(w http.ResponseWriter, r *http.Request) ports.SessionPersistence {
	if jar, ok := getJarFromContext(r.Context()); ok {
		return jar
	}
	return cookiejar.New(w, r, h.Cookies)
}

// Login sends the visitor to the identity provider.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	if GetSessionFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, redirectURI, http.StatusFound)
		return
	}

	authURL, err := h.Svc.LoginURL(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login url failed",
			slog.Any("error", err),
			slog.String("request_id", RequestIDFromContext(r.Context())),
		)
		if _, missing := h.Svc.ConfigStatus(); len(missing) > 0 {
			h.Pages.ConfigError(w, r, missing)
			return
		}
		h.Pages.renderLogin(w, r, loginView{Status: StatusForCode(apperrors.GetCode(err)), Err: err})
		return
	}

	if redirectURI != "/" {
		h.setPostLoginRedirect(w, redirectURI)
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback redeems the authorization code returned by the identity provider.
// GET /auth/callback?code=<code>&state=<state>. The root path delegates here
// when it carries a code.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if idpErr := q.Get("error"); idpErr != "" {
		h.logger().WarnContext(ctx, "identity provider returned an error",
			slog.String("error", idpErr),
			slog.String("error_description", q.Get("error_description")),
			slog.String("request_id", RequestIDFromContext(ctx)),
		)
		h.fail(w, r, apperrors.New(apperrors.ErrCodeExchangeRejected, "provider error: "+idpErr))
		return
	}

	sess := GetSessionFromContext(ctx)
	if err := h.Svc.CompleteLogin(ctx, sess, h.jar(w, r), q.Get("code")); err != nil {
		h.fail(w, r, err)
		return
	}

	target := h.takePostLoginRedirect(w, r)
	if isAJAX(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": target,
		})
		return
	}
	h.Pages.SignedIn(w, r, target)
}

// fail renders the login view with the visitor-safe message for err.
func (h *AuthHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !IsBrowserRequest(r) || isAJAX(r) {
		WriteAppError(w, err)
		return
	}
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	h.Pages.renderLogin(w, r, loginView{Status: StatusForCode(code), Err: err})
}

// Logout clears the session cookies.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	h.Svc.Logout(r.Context(), sess, h.jar(w, r))

	if isAJAX(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": "/",
		})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// StatusResponse describes the caller's session.
type StatusResponse struct {
	Authenticated bool                     `json:"authenticated"`
	Name          string                   `json:"name,omitempty"`
	Email         string                   `json:"email,omitempty"`
	Username      string                   `json:"username,omitempty"`
	Roles         []string                 `json:"roles"`
	HighestRole   string                   `json:"highest_role,omitempty"`
	Permissions   []domainauth.Permission  `json:"permissions"`
	Pages         map[domainauth.Page]bool `json:"pages"`
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	resp := StatusResponse{
		Authenticated: sess.IsAuthenticated(),
		Roles:         sess.Roles(),
		Permissions:   domainauth.PermissionsFor(sess.Roles()),
		Pages:         sess.AccessiblePages(),
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	if resp.Permissions == nil {
		resp.Permissions = []domainauth.Permission{}
	}
	if claims := sess.UserInfo(); claims != nil {
		resp.Name = claims.DisplayName()
		resp.Email = claims.Email
		resp.Username = claims.Username()
	}
	if hr, ok := sess.HighestRole(); ok {
		resp.HighestRole = string(hr)
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, resp)
}

// setPostLoginRedirect remembers the destination across the IdP round trip.
// SameSite=Lax so the cookie is sent on the cross-site callback navigation.
func (h *AuthHandlers) setPostLoginRedirect(w http.ResponseWriter, target string) {
	http.SetCookie(w, &http.Cookie{
		Name:     PostLoginRedirectCookie,
		Value:    target,
		Path:     "/",
		Domain:   h.Cookies.Domain,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   postLoginRedirectMaxAge,
	})
}

// takePostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) takePostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(PostLoginRedirectCookie)
	if err != nil {
		return "/"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     PostLoginRedirectCookie,
		Value:    "",
		Path:     "/",
		Domain:   h.Cookies.Domain,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
	return safeRedirectPath(c.Value)
}
