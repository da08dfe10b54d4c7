package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// sessionCookieName identifies the browser session across requests.
const sessionCookieName = "charla_session"

type contextKey string

const sessionKey contextKey = "session"

// sessionCookie assigns a v4 UUID cookie when the request carries none
// (or carries one that does not parse) and stores the session id on the
// request context.
func (s *Server) sessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the session id the middleware stored on the context.
func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey).(string)
	return id
}
