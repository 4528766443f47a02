package account

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/streamhive/account-service/internal/domain"
)

// Service orchestrates the session lifecycle (login, logout, refresh
// rotation with reuse detection, password change) and keeps users' remote
// asset URLs consistent with the object store.
type Service struct {
	users  UserRepo
	hasher PasswordHasher
	issuer TokenIssuer
	store  ObjectStore
	log    zerolog.Logger
}

func NewService(users UserRepo, hasher PasswordHasher, issuer TokenIssuer, store ObjectStore, log zerolog.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		store:  store,
		log:    log,
	}
}

// TokenPair is the common token output for handlers/DTO mapping.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // "Bearer"
	ExpiresIn    int64  // access token lifetime, seconds
}

type LoginResult struct {
	User   domain.PublicUser
	Tokens TokenPair
}

// issueTokenPair mints a fresh access+refresh pair and persists the new
// refresh token as the user's single current value, invalidating any prior
// still-unused refresh token.
func (s *Service) issueTokenPair(ctx context.Context, u domain.User) (TokenPair, error) {
	access, err := s.issuer.SignAccessToken(u.ID, u.Username)
	if err != nil {
		return TokenPair{}, domain.ErrTokenSignFailed(err)
	}

	refresh, err := s.issuer.SignRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, domain.ErrTokenSignFailed(err)
	}

	if err := s.users.SetRefreshToken(ctx, u.ID, refresh); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.issuer.AccessTTL().Seconds()),
	}, nil
}
