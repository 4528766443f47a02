package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streamhive/account-service/internal/application/account"
	"github.com/streamhive/account-service/internal/domain"
)

// JWTIssuer signs and verifies both token classes with HS256. The two
// classes use distinct secrets: compromise of the access secret must not
// allow forging refresh tokens, and vice versa.
type JWTIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTIssuer(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type accessClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func (i *JWTIssuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *JWTIssuer) RefreshTTL() time.Duration { return i.refreshTTL }

func (i *JWTIssuer) SignAccessToken(userID, username string) (string, error) {
	return i.sign(i.accessSecret, userID, username, i.accessTTL)
}

// SignRefreshToken carries only the subject claim; everything else about the
// session lives on the user record.
func (i *JWTIssuer) SignRefreshToken(userID string) (string, error) {
	return i.sign(i.refreshSecret, userID, "", i.refreshTTL)
}

func (i *JWTIssuer) sign(secret []byte, userID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (i *JWTIssuer) VerifyAccessToken(token string) (account.TokenClaims, error) {
	return i.verify(i.accessSecret, token)
}

func (i *JWTIssuer) VerifyRefreshToken(token string) (account.TokenClaims, error) {
	return i.verify(i.refreshSecret, token)
}

func (i *JWTIssuer) verify(secret []byte, token string) (account.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return account.TokenClaims{}, domain.ErrTokenExpired()
		}
		return account.TokenClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return account.TokenClaims{}, domain.ErrTokenInvalid()
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return account.TokenClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Exp:      exp,
	}, nil
}
