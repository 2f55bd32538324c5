package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accountd/user-directory/internal/core/domain"
	"github.com/accountd/user-directory/internal/core/ports"
)

// hashCost matches the salt rounds used when the collection was first
// populated; changing it would only affect newly hashed passwords.
const hashCost = 12

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 6
)

// LoginLimiter abstracts the rate-limiting store (Redis).
type LoginLimiter interface {
	// Allow reports whether another login attempt for key is permitted.
	Allow(ctx context.Context, key string) (bool, error)
}

// AuthService implements registration, login, and token verification.
type AuthService struct {
	repo      ports.UserRepository
	limiter   LoginLimiter
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService builds an AuthService. limiter may be nil, in which case
// login attempts are never throttled.
func NewAuthService(repo ports.UserRepository, limiter LoginLimiter, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, limiter: limiter, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a new active USER account and mints a token for it.
// The repository's unique indexes are the authority on username/email
// uniqueness; the pre-check here only produces the friendlier error early.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	if err := validateRegisterInput(&input); err != nil {
		return "", nil, err
	}

	if existing, err := s.repo.FindByUsernameOrEmail(ctx, input.Username, input.Email); err == nil && existing != nil {
		return "", nil, domain.ErrUserExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), hashCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Age:          input.Age,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(created.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return token, created, nil
}

// Login verifies the email+password pair and mints a token. Unknown email and
// wrong password collapse to the same error; a deactivated account fails with
// its own distinct error after the credentials check out.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// Rate limiting is best-effort: a broken limiter must not lock
			// everyone out.
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !ok {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, domain.ErrAccountInactive
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Identify resolves a bearer token to its subject user. Every failure mode —
// bad signature, expiry, malformed claims, subject no longer present — is
// reported as an error without distinguishing the reason.
func (s *AuthService) Identify(ctx context.Context, token string) (*domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func validateRegisterInput(input *ports.RegisterInput) error {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if len(input.Username) < usernameMinLen || len(input.Username) > usernameMaxLen {
		return domain.ErrInvalidInput
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return domain.ErrInvalidInput
	}
	if len(input.Password) < passwordMinLen {
		return domain.ErrInvalidInput
	}
	if input.FirstName == "" || input.LastName == "" {
		return domain.ErrInvalidInput
	}
	if input.Age != nil && (*input.Age < domain.AgeMin || *input.Age > domain.AgeMax) {
		return domain.ErrInvalidInput
	}
	return nil
}
