package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kidzcarehub/pkg"
)

// SessionCookie names the cookie that carries the session id.
const SessionCookie = "kch_session"

type sessionKey struct{}

// sessionMiddleware makes sure every request carries a session id, issuing a
// fresh one when the cookie is missing or malformed.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}

// preferences loads the caller's preferences.  A store failure degrades to
// the defaults so the page still renders.
func (s *Server) preferences(r *http.Request) pkg.Preferences {
	prefs, err := s.Sessions.Get(r.Context(), sessionID(r))
	if err != nil {
		s.Log.Warn("load preferences", zap.String("session", sessionID(r)), zap.Error(err))
		return pkg.DefaultPreferences()
	}
	return prefs
}

func (s *Server) savePreferences(r *http.Request, prefs pkg.Preferences) error {
	return s.Sessions.Save(r.Context(), sessionID(r), prefs)
}
