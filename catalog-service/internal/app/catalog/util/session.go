package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession - подпись неверна, токен поврежден или истек
var ErrInvalidSession = errors.New("invalid session")

// SessionClaims - полезная нагрузка токена сессии; Subject хранит ID пользователя
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager подписывает и проверяет токены сессий (HS256).
// Отзыва отдельных сессий нет: смена секрета инвалидирует все сессии сразу.
type SessionManager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewSessionManager(secretKey string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue выпускает токен для субъекта и возвращает момент его истечения
func (m *SessionManager) Issue(subjectID, role string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   subjectID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, expiresAt, nil
}

// Verify проверяет токен; любая проблема сводится к ErrInvalidSession
func (m *SessionManager) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return m.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}
