// Package session is the authentication gate. It manages users in the
// store's user table, verifies credentials with bcrypt, and carries the
// authenticated identity through contexts as a signed JWT session.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tally/internal/storage"
)

var (
	// ErrNoSession is returned when an operation requires an
	// authenticated user and none is present.
	ErrNoSession = errors.New("authentication required")

	ErrBadCredentials = errors.New("invalid email or password")
	ErrInvalidToken   = errors.New("invalid or expired session token")
	ErrBadEmail       = errors.New("email address is not valid")
	ErrWeakPassword   = errors.New("password must be at least 8 characters")
)

const minPasswordLen = 8

// Identity is the minimal authenticated-user context. It gates access;
// it carries no ledger semantics.
type Identity struct {
	UserID int64
	Email  string
}

// UserStore is the slice of the persistent store the gate needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (storage.User, error)
	UserByEmail(ctx context.Context, email string) (storage.User, error)
}

// Gate authenticates users and validates session tokens.
type Gate struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewGate(users UserStore, secret []byte, ttl time.Duration) *Gate {
	return &Gate{users: users, secret: secret, ttl: ttl, now: time.Now}
}

// Register creates a user with a bcrypt-hashed password.
func (g *Gate) Register(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") || len(email) < 3 {
		return Identity{}, ErrBadEmail
	}
	if len(password) < minPasswordLen {
		return Identity{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := g.users.CreateUser(ctx, email, string(hash))
	if err != nil {
		return Identity{}, fmt.Errorf("create user: %w", err)
	}
	return Identity{UserID: u.ID, Email: u.Email}, nil
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Login verifies the credentials and issues a signed session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (g *Gate) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := g.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrBadCredentials
	}

	now := g.now()
	claims := sessionClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify checks a session token and returns the identity it carries.
func (g *Gate) Verify(token string) (Identity, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, Email: claims.Email}, nil
}

type identityKey struct{}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// CurrentUser extracts the identity from the context, if any.
func CurrentUser(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RequireAuth fails with ErrNoSession unless the context carries an
// authenticated identity. Satisfies the ledger.Gate port.
func (g *Gate) RequireAuth(ctx context.Context) error {
	if _, ok := CurrentUser(ctx); !ok {
		return ErrNoSession
	}
	return nil
}
