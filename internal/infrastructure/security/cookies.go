package security

import (
	"net/http"
	"time"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

func setCookie(w http.ResponseWriter, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// SetAuthCookies writes both token cookies on login/refresh.
func SetAuthCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	setCookie(w, AccessCookieName, access, accessTTL, secure)
	setCookie(w, RefreshCookieName, refresh, refreshTTL, secure)
}

// ClearAuthCookies expires both token cookies on logout.
func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// ReadAccessToken returns the access token cookie value, if present.
func ReadAccessToken(r *http.Request) (string, error) {
	c, err := r.Cookie(AccessCookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// ReadRefreshToken returns the refresh token cookie value, if present.
func ReadRefreshToken(r *http.Request) (string, error) {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
