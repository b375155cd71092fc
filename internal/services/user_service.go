package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mserrato/accounts-be/internal/apperrors"
	"github.com/mserrato/accounts-be/internal/auth"
	"github.com/mserrato/accounts-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, string, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides registration and authentication for user accounts.
type UserService struct {
	db     *sql.DB
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *UserService {
	return &UserService{db: db, hasher: hasher, tokens: tokens}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, created_at, updated_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.NotFound("User not found")
		}
		return models.User{}, apperrors.Internal(err)
	}
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the
// password hash. The hash never leaves this package.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Register creates a new account. The uniqueness lookup completes before
// any hashing or insert happens; the UNIQUE index on email backstops the
// window between lookup and insert.
func (s *UserService) Register(email, password string) (models.User, error) {
	_, err := s.getUserByEmail(email)
	if err == nil {
		return models.User{}, apperrors.Conflict("User already exists")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}

	_, err = s.db.Exec("INSERT INTO users(id, email, password_hash) VALUES(?, ?, ?)",
		user.ID, user.Email, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperrors.Conflict("User already exists")
		}
		return models.User{}, apperrors.Internal(err)
	}

	return s.GetUserByID(user.ID)
}

// Authenticate verifies credentials and issues a bearer token. An unknown
// email is NotFound; a wrong password is BadRequest with a deliberately
// generic message.
func (s *UserService) Authenticate(email, password string) (models.User, string, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", apperrors.NotFound("User not found")
		}
		return models.User{}, "", apperrors.Internal(err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// Malformed stored hash; not the same thing as a mismatch, but the
		// caller still only learns "not authenticated".
		log.Error().Err(err).Str("user_id", user.ID).Msg("Password hash verification failed")
	}
	if !ok {
		return models.User{}, "", apperrors.BadRequest("Invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return models.User{}, "", apperrors.Internal(err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
