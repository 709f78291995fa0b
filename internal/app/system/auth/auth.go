package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	userIDKey    = "user_id"
	sessionIDKey = "session_id"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the signed-in user injected into r.Context().
type SessionUser struct {
	ID             string
	SessionID      string
	Name           string
	Username       string
	Role           string
	OrganizationID string
}

// UserFetcher loads fresh user data for the user id stored in the session.
// It returns nil when the user no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context, bypassing the cookie.
// Tests use it to exercise handlers behind LoadSessionUser.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager reads the signed session cookie issued by the sign-in
// service and resolves it to a SessionUser.
type SessionManager struct {
	store       *sessions.CookieStore
	name        string
	fetcher     UserFetcher
	logRequests bool
	log         *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		return nil, errors.New("session name is empty")
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:       store,
		name:        name,
		logRequests: secure,
		log:         logger,
	}, nil
}

// SetUserFetcher makes LoadSessionUser fetch the user from the database on
// every request so role and organization changes apply immediately.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// SetRequestLogging turns gate request logging on or off.
func (sm *SessionManager) SetRequestLogging(on bool) {
	sm.logRequests = on
}

// StartSession writes a new session for userID and returns its id.
// Sign-in lives outside this service; this exists for that service and tests.
func (sm *SessionManager) StartSession(w http.ResponseWriter, r *http.Request, userID string) (string, error) {
	sess, _ := sm.store.Get(r, sm.name)
	sid := uuid.NewString()
	sess.Values[userIDKey] = userID
	sess.Values[sessionIDKey] = sid
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return sid, nil
}

// session decodes the session cookie. ok is false when there is no cookie
// or it fails verification.
func (sm *SessionManager) session(r *http.Request) (userID, sessionID string, ok bool) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Debug("session cookie failed to decode", zap.String("path", r.URL.Path))
		}
		return "", "", false
	}
	userID, _ = sess.Values[userIDKey].(string)
	sessionID, _ = sess.Values[sessionIDKey].(string)
	if userID == "" || sessionID == "" {
		return "", "", false
	}
	return userID, sessionID, true
}

// SessionID returns the id of the caller's session, if any.
func (sm *SessionManager) SessionID(r *http.Request) (string, bool) {
	_, sid, ok := sm.session(r)
	return sid, ok
}

// LoadSessionUser injects the user into context if they are signed in.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, sid, ok := sm.session(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		u := &SessionUser{ID: userID}
		if sm.fetcher != nil {
			u = sm.fetcher.FetchUser(r.Context(), userID)
			if u == nil {
				sm.log.Debug("session user no longer exists", zap.String("user_id", userID))
				next.ServeHTTP(w, r)
				return
			}
		}
		u.SessionID = sid
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTML: 303 redirect to /sign-in?return=...
//   - API:  401 with a JSON error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			ret := url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, SignInPath+"?return="+ret, http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
	})
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
