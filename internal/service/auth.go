package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

var ErrInvalidToken = errors.New("invalid token")

// InitJWT задает секрет подписи гостевых сессий
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// IssueToken выдает гостевой сессионный токен: id соединения + имя.
// Аккаунтов нет - идентичность живет столько, сколько живет токен
func IssueToken(playerID, name string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  playerID,
		"name": name,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken проверяет подпись и срок и возвращает id игрока и имя
func ParseToken(tokenString string) (playerID, name string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}

	playerID, _ = claims["sub"].(string)
	name, _ = claims["name"].(string)
	if playerID == "" || name == "" {
		return "", "", ErrInvalidToken
	}
	return playerID, name, nil
}
