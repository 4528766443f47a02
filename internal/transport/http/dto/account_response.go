package dto

import (
	"time"

	"github.com/streamhive/account-service/internal/application/account"
	"github.com/streamhive/account-service/internal/domain"
)

// UserView is the serialized public projection of a user. The credential
// fields do not exist on this type at all.
type UserView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Avatar    string `json:"avatar"`
	Cover     string `json:"coverImage,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func NewUserView(u domain.PublicUser) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Avatar:    u.AvatarURL,
		Cover:     u.CoverURL,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type TokensView struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func NewTokensView(t account.TokenPair) TokensView {
	return TokensView{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

type LoginData struct {
	User   UserView   `json:"user"`
	Tokens TokensView `json:"tokens"`
}

type DeleteData struct {
	Status string `json:"status"`
}
