package account

import (
	"context"

	"github.com/streamhive/account-service/internal/domain"
)

// Logout clears the user's stored refresh token. Any previously issued
// refresh token is rejected by Refresh afterwards, even if not yet expired.
// Idempotent: logging out an already logged-out user succeeds.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrTokenMissing()
	}
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("user_logged_out")
	return nil
}
