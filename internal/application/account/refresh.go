package account

import (
	"context"

	"github.com/streamhive/account-service/internal/domain"
)

// Refresh rotates a presented refresh token and issues a new pair.
// Rotation rule: the old token becomes invalid once used successfully, and a
// rotated-out token being replayed is rejected (reuse detection). Every
// failure mode surfaces as the same refresh_token_invalid signal.
func (s *Service) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	if presented == "" {
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}

	claims, err := s.issuer.VerifyRefreshToken(presented)
	if err != nil {
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}

	access, err := s.issuer.SignAccessToken(u.ID, u.Username)
	if err != nil {
		return TokenPair{}, domain.ErrTokenSignFailed(err)
	}
	refresh, err := s.issuer.SignRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, domain.ErrTokenSignFailed(err)
	}

	// Compare-and-swap against the stored value. A mismatch means the
	// presented token was already rotated out (or the session was cleared by
	// logout/password change); never silently accept a stale but
	// signature-valid token.
	if err := s.users.RotateRefreshToken(ctx, u.ID, presented, refresh); err != nil {
		s.log.Warn().Str("user_id", u.ID).Msg("refresh token reuse or stale rotation attempt")
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.issuer.AccessTTL().Seconds()),
	}, nil
}
