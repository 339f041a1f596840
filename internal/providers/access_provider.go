package providers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"livepoll/internal/models"
	"livepoll/internal/structures"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessKeyHeader = "X-Access-Key"
	adminSubject    = "admin"
	adminIssuer     = "livepoll"
)

type AccessGateInterface interface {
	Verify(key string) bool
	Login(password string) (string, time.Time, error)
	VerifyToken(token string) error
	RequireKey(next http.Handler) http.Handler
	RequireAdmin(next http.Handler) http.Handler
}

// AccessGate checks the shared participant key and the admin session token.
// The participant key is an obfuscation barrier, not a credential.
type AccessGate struct {
	key          []byte
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
	logger       Logger
}

func NewAccessGate(conf *structures.Config, logger Logger) AccessGateInterface {
	return &AccessGate{
		key:          []byte(conf.Access.Key),
		passwordHash: []byte(conf.Access.AdminPasswordHash),
		secret:       []byte(conf.Access.TokenSecret),
		ttl:          conf.Access.TokenTTL,
		now:          time.Now,
		logger:       logger,
	}
}

func (g *AccessGate) Verify(key string) bool {
	if key == "" || len(g.key) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), g.key) == 1
}

// Login checks the admin password and issues a signed session token.
func (g *AccessGate) Login(password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, models.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, models.ErrUnauthorized
	}

	now := g.now()
	exp := now.Add(g.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		Issuer:    adminIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return token, exp, nil
}

func (g *AccessGate) VerifyToken(token string) error {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(adminIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !parsed.Valid {
		return errors.Join(models.ErrUnauthorized, err)
	}
	return nil
}

func KeyFromRequest(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return r.Header.Get(AccessKeyHeader)
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (g *AccessGate) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Verify(KeyFromRequest(r)) {
			g.logger.Debugf(GetLogTypeByRequestType(r.Method), "rejected access key on %s", r.URL.Path)
			WriteJSONError(w, http.StatusUnauthorized, "Unauthorized", "invalid or missing access key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *AccessGate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Unauthorized", "authorization header required")
			return
		}
		if err := g.VerifyToken(token); err != nil {
			g.logger.Warnf(TypeAdmin, "rejected admin token on %s: %s", r.URL.Path, err)
			WriteJSONError(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
