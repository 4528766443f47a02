package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/streamhive/account-service/internal/application/account"
	"github.com/streamhive/account-service/internal/domain"
	"github.com/streamhive/account-service/internal/infrastructure/security"
	"github.com/streamhive/account-service/internal/transport/http/response"
)

type stubVerifier struct {
	claims account.TokenClaims
	err    error
}

func (s stubVerifier) VerifyAccessToken(string) (account.TokenClaims, error) {
	return s.claims, s.err
}

type stubUsers struct {
	user domain.User
	err  error
}

func (s stubUsers) GetByID(context.Context, string) (domain.User, error) {
	return s.user, s.err
}

func okNext(t *testing.T, wantID, wantUsername string) (http.Handler, *bool) {
	t.Helper()
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, ok := UserIDFromContext(r.Context())
		if !ok || id != wantID {
			t.Fatalf("expected user id %q in context, got %q (ok=%v)", wantID, id, ok)
		}
		if name, _ := UsernameFromContext(r.Context()); name != wantUsername {
			t.Fatalf("expected username %q, got %q", wantUsername, name)
		}
		w.WriteHeader(http.StatusNoContent)
	}), &called
}

func TestAuth_BearerHeader(t *testing.T) {
	t.Parallel()

	mw := Auth(
		stubVerifier{claims: account.TokenClaims{UserID: "u1", Username: "ada"}},
		stubUsers{user: domain.User{ID: "u1", Username: "ada"}},
		response.WriteError,
	)
	next, called := okNext(t, "u1", "ada")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer some.jwt.token")
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if !*called {
		t.Fatalf("next handler not reached")
	}
}

func TestAuth_Cookie(t *testing.T) {
	t.Parallel()

	mw := Auth(
		stubVerifier{claims: account.TokenClaims{UserID: "u1", Username: "ada"}},
		stubUsers{user: domain.User{ID: "u1", Username: "ada"}},
		response.WriteError,
	)
	next, called := okNext(t, "u1", "ada")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: security.AccessCookieName, Value: "some.jwt.token"})
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if !*called {
		t.Fatalf("next handler not reached")
	}
}

func TestAuth_NoToken(t *testing.T) {
	t.Parallel()

	mw := Auth(stubVerifier{}, stubUsers{}, response.WriteError)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	mw := Auth(
		stubVerifier{err: domain.ErrTokenInvalid()},
		stubUsers{},
		response.WriteError,
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuth_DeletedSubject(t *testing.T) {
	t.Parallel()

	mw := Auth(
		stubVerifier{claims: account.TokenClaims{UserID: "gone"}},
		stubUsers{err: domain.ErrUserNotFound()},
		response.WriteError,
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer valid.but.orphaned")
	rr := httptest.NewRecorder()

	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuth_MalformedAuthorizationHeader(t *testing.T) {
	t.Parallel()

	mw := Auth(stubVerifier{}, stubUsers{}, response.WriteError)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next must not run")
	})

	for _, h := range []string{"Basic abc", "Bearer", "tokenonly"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", h)
		rr := httptest.NewRecorder()

		mw(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", h, rr.Code)
		}
	}
}

func TestRequestID_EchoAndAssign(t *testing.T) {
	t.Parallel()

	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// echoes the incoming id
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get(HeaderXRequestID); got != "req-42" {
		t.Fatalf("expected echoed id, got %q", got)
	}

	// assigns one when absent
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get(HeaderXRequestID) == "" {
		t.Fatalf("expected generated request id")
	}
}
