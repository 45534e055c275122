package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt"
)

var (
	ErrMissingToken = errors.New("Missing JWT-Token header")
	ErrInvalidToken = errors.New("Invalid JWT token")
)

type JwtTokenService interface {
	Create(userID string, tokenExpTime int64) (string, error)
	Validate(tokenString string) (*JwtCsrfClaims, error)
	ParseSecretGetter(token *jwt.Token) (interface{}, error)
}

type JwtToken struct {
	Secret []byte
}

func NewJwtToken(secret string) (JwtTokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JwtToken{
		Secret: []byte(secret),
	}, nil
}

type JwtCsrfClaims struct {
	UserId string `json:"userID"`
	jwt.StandardClaims
}

func (tk *JwtToken) Create(userID string, tokenExpTime int64) (string, error) {
	data := JwtCsrfClaims{
		UserId: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: tokenExpTime,
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, data)
	return token.SignedString(tk.Secret)
}

func (tk *JwtToken) Validate(tokenString string) (*JwtCsrfClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCsrfClaims{}, tk.ParseSecretGetter)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*JwtCsrfClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.ExpiresAt < time.Now().Unix() {
		return nil, errors.New("token has expired")
	}

	return claims, nil
}

func (tk *JwtToken) ParseSecretGetter(token *jwt.Token) (interface{}, error) {
	method, ok := token.Method.(*jwt.SigningMethodHMAC)
	if !ok || method.Alg() != "HS256" {
		return nil, errors.New("bad sign method")
	}
	return tk.Secret, nil
}

// AuthenticatedUserID reads "JWT-Token: Bearer <token>" and returns the user id it carries.
func AuthenticatedUserID(r *http.Request, tokens JwtTokenService) (uint, error) {
	authHeader := r.Header.Get("JWT-Token")
	if authHeader == "" {
		return 0, ErrMissingToken
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		return 0, ErrInvalidToken
	}
	claims, err := tokens.Validate(tokenString)
	if err != nil {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.UserId, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
