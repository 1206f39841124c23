package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfTokenBytes = 32
)

// csrfToken ensures a CSRF token cookie is set on the response. If the request
// already has a CSRF cookie, this is a no-op. The token is readable by app.js,
// which echoes it in the X-CSRF-Token header of view requests.
func csrfToken(w http.ResponseWriter, r *http.Request, basePath string) {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
		return
	}

	cookiePath := basePath
	if cookiePath == "" {
		cookiePath = "/"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    generateToken(),
		Path:     cookiePath,
		HttpOnly: false, // readable by app.js
		SameSite: http.SameSiteStrictMode,
	})
}

// validateCSRF checks that the X-CSRF-Token header matches the cookie.
func validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	token := r.Header.Get(csrfHeaderName)
	return token != "" && token == cookie.Value
}

func generateToken() string {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: failed to generate random token: " + err.Error())
	}
	return hex.EncodeToString(b)
}
