package auth

import (
	"fmt"
	"net/http"
	"time"
)

// TokenCookie is the cookie that carries the identity token.
const TokenCookie = "token"

// TokenFromCookieHeader extracts the token cookie from a raw Cookie header.
func TokenFromCookieHeader(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	r := http.Request{Header: http.Header{"Cookie": {header}}}
	c, err := r.Cookie(TokenCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// SignInCookie builds the Set-Cookie value issued on sign-in.
func SignInCookie(token string, maxAge time.Duration) string {
	return fmt.Sprintf("%s=%s; SameSite=None; Secure; HttpOnly; Path=/; Max-Age=%d;",
		TokenCookie, token, int(maxAge.Seconds()))
}

// SignOutCookie builds the Set-Cookie value that expires the token cookie.
func SignOutCookie() string {
	return TokenCookie + "=x; SameSite=None; Secure; HttpOnly; Path=/; expires=Thu, 01 Jan 1970 00:00:00 GMT;"
}
