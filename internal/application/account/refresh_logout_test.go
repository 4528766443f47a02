package account

import (
	"context"
	"errors"
	"testing"

	"github.com/streamhive/account-service/internal/domain"
)

func TestRefresh_RotatesToken(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(repo, "u1", "ada", "ada@example.com", "pw")
	svc := newTestService(repo, &fakeHasher{}, &fakeIssuer{}, &fakeStore{})

	res, err := svc.Login(context.Background(), "ada", "pw")
	requireNoErr(t, err)

	toks, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	requireNoErr(t, err)

	if toks.RefreshToken == res.Tokens.RefreshToken {
		t.Fatalf("refresh must rotate the token")
	}
	if got := repo.get("u1").RefreshToken; got != toks.RefreshToken {
		t.Fatalf("stored token %q != rotated %q", got, toks.RefreshToken)
	}
	if toks.AccessToken == "" || toks.TokenType != "Bearer" {
		t.Fatalf("unexpected pair %+v", toks)
	}
}

func TestRefresh_ReuseDetection(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(repo, "u1", "ada", "ada@example.com", "pw")
	svc := newTestService(repo, &fakeHasher{}, &fakeIssuer{}, &fakeStore{})

	res, err := svc.Login(context.Background(), "ada", "pw")
	requireNoErr(t, err)

	// First use succeeds and rotates.
	_, err = svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	requireNoErr(t, err)

	// Replaying the rotated-out token must be rejected.
	_, err = svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	requireErrCode(t, err, "refresh_token_invalid")
}

func TestRefresh_EmptyToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeIssuer{}, &fakeStore{})

	_, err := svc.Refresh(context.Background(), "")
	requireErrCode(t, err, "refresh_token_invalid")
}

func TestRefresh_BadSignatureCollapses(t *testing.T) {
	t.Parallel()

	issuer := &fakeIssuer{verifyErr: domain.ErrTokenInvalid()}
	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, issuer, &fakeStore{})

	_, err := svc.Refresh(context.Background(), "refresh:u1:1")
	requireErrCode(t, err, "refresh_token_invalid")
}

func TestRefresh_UnknownSubjectCollapses(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeIssuer{}, &fakeStore{})

	_, err := svc.Refresh(context.Background(), "refresh:ghost:1")
	requireErrCode(t, err, "refresh_token_invalid")
}

func TestRefresh_SignFailureIsNotCollapsed(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	u := seedUser(repo, "u1", "ada", "ada@example.com", "pw")
	repo.add(domain.User{ID: u.ID, Username: u.Username, Email: u.Email,
		PasswordHash: u.PasswordHash, RefreshToken: "refresh:u1:1"})

	issuer := &fakeIssuer{signAccessErr: errors.New("kms down")}
	svc := newTestService(repo, &fakeHasher{}, issuer, &fakeStore{})

	_, err := svc.Refresh(context.Background(), "refresh:u1:1")
	requireErrCode(t, err, "token_sign_failed")
}

func TestLogout_ClearsStoredToken(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(repo, "u1", "ada", "ada@example.com", "pw")
	svc := newTestService(repo, &fakeHasher{}, &fakeIssuer{}, &fakeStore{})

	res, err := svc.Login(context.Background(), "ada", "pw")
	requireNoErr(t, err)

	requireNoErr(t, svc.Logout(context.Background(), "u1"))

	if got := repo.get("u1").RefreshToken; got != "" {
		t.Fatalf("refresh token not cleared: %q", got)
	}

	// The pre-logout refresh token is dead.
	_, err = svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	requireErrCode(t, err, "refresh_token_invalid")
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	seedUser(repo, "u1", "ada", "ada@example.com", "pw")
	svc := newTestService(repo, &fakeHasher{}, &fakeIssuer{}, &fakeStore{})

	requireNoErr(t, svc.Logout(context.Background(), "u1"))
	requireNoErr(t, svc.Logout(context.Background(), "u1"))
}

func TestLogout_MissingUserID(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo(), &fakeHasher{}, &fakeIssuer{}, &fakeStore{})

	err := svc.Logout(context.Background(), "")
	requireErrCode(t, err, "token_missing")
}
