package auth

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued token stays valid. There is no refresh or
// rotation scheme.
const TokenTTL = 30 * 24 * time.Hour

var (
	jwtKey     []byte
	jwtKeyOnce sync.Once
)

// GetJWTKey reads the signing key from the environment once, after the .env
// file has been loaded.
func GetJWTKey() []byte {
	jwtKeyOnce.Do(func() {
		jwtKey = []byte(os.Getenv("JWT_KEY"))
	})
	return jwtKey
}

// JWTClaims carries only the user id and an expiry. Role and profile are
// looked up from the store on every request.
type JWTClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

func GenerateJWT(userID string, duration time.Duration) (string, error) {
	claims := &JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetJWTKey())
}

// ValidateJWT verifies the signature and expiry and returns the user id.
func ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return GetJWTKey(), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	return claims.UserID, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
