package account

import (
	"context"
	"strings"

	"github.com/streamhive/account-service/internal/domain"
)

// Login authenticates by username or email and issues a fresh token pair.
// The new refresh token overwrites any previously stored value, so there is
// a single active session per user.
func (s *Service) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	identifier = domain.NormalizeIdentifier(identifier)

	if identifier == "" {
		return LoginResult{}, domain.ErrMissingField("username/email")
	}
	if strings.TrimSpace(password) == "" {
		return LoginResult{}, domain.ErrMissingField("password")
	}

	u, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	toks, err := s.issueTokenPair(ctx, u)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().Str("user_id", u.ID).Msg("user_logged_in")
	return LoginResult{User: u.Public(), Tokens: toks}, nil
}
