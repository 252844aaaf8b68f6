package jwt

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeUnlock = "unlock"

var ErrTokenRevoked = errors.New("unlock token has been revoked")

type Service interface {
	// GenerateUnlockToken issues a token that opens the PIN lock until it expires
	GenerateUnlockToken() (token string, expiresAt time.Time, err error)
	// ValidateUnlockClaims checks claims taken from a verified token
	ValidateUnlockClaims(claims map[string]interface{}) error
	// RevokeAll invalidates every unlock token issued so far
	RevokeAll()
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	unlockExpiration time.Duration
	tokenAuth        *jwtauth.JWTAuth
	now              func() time.Time

	mu         sync.RWMutex
	boot       string
	generation uint64
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, unlockExpiration time.Duration) *JWTService {
	return &JWTService{
		unlockExpiration: unlockExpiration,
		tokenAuth:        jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:              time.Now,
		// tokens from an earlier process never validate
		boot: strconv.FormatInt(time.Now().UnixNano(), 36),
	}
}

// epoch identifies the current token generation. Callers hold j.mu.
func (j *JWTService) epoch() string {
	return j.boot + "." + strconv.FormatUint(j.generation, 10)
}

func (j *JWTService) GenerateUnlockToken() (string, time.Time, error) {
	expiresAt := j.now().Add(j.unlockExpiration)

	j.mu.RLock()
	epoch := j.epoch()
	j.mu.RUnlock()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"type":  TokenTypeUnlock,
		"epoch": epoch,
		"iat":   j.now().Unix(),
		"exp":   expiresAt.Unix(),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (j *JWTService) ValidateUnlockClaims(claims map[string]interface{}) error {
	if tokenType, ok := claims["type"].(string); !ok || tokenType != TokenTypeUnlock {
		return jwt.ErrInvalidJWT()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if epoch, ok := claims["epoch"].(string); !ok || epoch != j.epoch() {
		return ErrTokenRevoked
	}
	return nil
}

func (j *JWTService) RevokeAll() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.generation++
}
