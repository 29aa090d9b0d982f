package jwt

import (
	"errors"
	"fmt"
	"time"

	"foodgram/domain"
	"foodgram/internal/utils"

	"github.com/golang-jwt/jwt/v4"
)

const tokenLifetime = 24 * time.Hour

type (
	JWTService interface {
		GenerateTokenUser(userId string) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, error)
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func NewJWTService() JWTService {
	return NewJWTServiceWithSecret(utils.GetConfig("JWT_SECRET"))
}

func NewJWTServiceWithSecret(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "FOODGRAM",
	}
}

func (j *jwtService) GenerateTokenUser(userId string) (string, error) {
	claims := jwtUserClaim{
		userId,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserIDByToken(token string) (string, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtUserClaim)
	if claims.UserID == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.UserID, nil
}
