package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	DefaultLifetime  = 24 * time.Hour
	RememberLifetime = 30 * 24 * time.Hour
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, expired token. Callers only branch on valid vs not.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity a verified token carries.
type Claims struct {
	UserID uint
	Role   string
}

// Service signs and verifies identity tokens with a single symmetric secret.
type Service struct {
	Secret []byte
}

func NewService(secret []byte) *Service {
	return &Service{Secret: secret}
}

// Issue signs a token for the given user. remember selects the extended
// lifetime, everything else about the token is identical.
func (s *Service) Issue(userID uint, role string, remember bool) (string, time.Time, error) {
	lifetime := DefaultLifetime
	if remember {
		lifetime = RememberLifetime
	}
	exp := time.Now().Add(lifetime)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses and validates a raw token. There is no lenient mode: any
// failure comes back as ErrInvalidToken.
func (s *Service) Verify(raw string) (Claims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !t.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: cannot parse claims", ErrInvalidToken)
	}

	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	role, ok := mc["role"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("%w: missing role claim", ErrInvalidToken)
	}

	return Claims{UserID: uint(sub), Role: role}, nil
}
