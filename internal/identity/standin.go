package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resona/internal/model"
)

// account is an in-memory credential record held by the stand-in provider.
type account struct {
	user         model.User
	passwordHash []byte
}

// StandinProvider is an in-process identity provider. Accounts live in
// memory, passwords are bcrypt-hashed and tokens are signed HS256 JWTs, so
// swapping in a real provider changes no contract, only the wiring.
type StandinProvider struct {
	mu        sync.Mutex
	accounts  map[string]*account // keyed by lowercased email
	usernames map[string]struct{}

	jwtSecret   string
	tokenMaxAge time.Duration
}

// NewStandinProvider creates a provider with no accounts. tokenMaxAge bounds
// the lifetime of issued tokens.
func NewStandinProvider(jwtSecret string, tokenMaxAge time.Duration) *StandinProvider {
	return &StandinProvider{
		accounts:    make(map[string]*account),
		usernames:   make(map[string]struct{}),
		jwtSecret:   jwtSecret,
		tokenMaxAge: tokenMaxAge,
	}
}

// Register seeds an account with a known password. Used at wiring time to
// make fixture users signable.
func (p *StandinProvider) Register(user model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[strings.ToLower(user.Email)] = &account{user: user, passwordHash: hash}
	p.usernames[strings.ToLower(user.Username)] = struct{}{}
	return nil
}

func (p *StandinProvider) Login(ctx context.Context, email, password string) (*model.AuthUser, error) {
	p.mu.Lock()
	acct, ok := p.accounts[strings.ToLower(email)]
	p.mu.Unlock()

	if !ok {
		return nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := p.issueToken(acct.user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.AuthUser{User: acct.user, AuthToken: token}, nil
}

func (p *StandinProvider) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthUser, error) {
	p.mu.Lock()
	_, taken := p.usernames[strings.ToLower(req.Username)]
	p.mu.Unlock()
	if taken {
		return nil, model.ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:          uuid.NewString(),
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		JoinedAt:    time.Now().UTC(),
		// Social counters start at zero for a fresh account.
	}

	p.mu.Lock()
	p.accounts[strings.ToLower(req.Email)] = &account{user: user, passwordHash: hash}
	p.usernames[strings.ToLower(req.Username)] = struct{}{}
	p.mu.Unlock()

	token, err := p.issueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.AuthUser{User: user, AuthToken: token}, nil
}

func (p *StandinProvider) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(p.tokenMaxAge).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.jwtSecret))
}

// ParseToken validates a token issued by this provider and returns the user
// id claim. Useful for asserting round trips in tests and the demo.
func (p *StandinProvider) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return "", jwt.ErrSignatureInvalid
		}
		return []byte(p.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}
