package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"aerolite/internal/models"
)

// Claims is the payload of access tokens issued by the backend. The profile
// fields let a client rebuild the signed-in user after a restart.
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

var ErrStaleToken = errors.New("token carries no usable profile")

// IssueToken signs an HS256 access token for user.
func IssueToken(secret []byte, user models.User, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// UserFromToken reads the profile out of a token without checking its
// signature; the client does not hold the signing key. The backend still
// verifies the token on every authorized request.
func UserFromToken(token string, now time.Time) (*models.User, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStaleToken, err)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: expired at %s", ErrStaleToken, claims.ExpiresAt.Time)
	}
	if claims.Email == "" || claims.FirstName == "" {
		return nil, ErrStaleToken
	}

	user := &models.User{
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}
	if id, err := strconv.ParseInt(claims.Subject, 10, 64); err == nil {
		user.ID = id
	}
	return user, nil
}
