// Package services contains server-side business logic. This file implements
// UserService: throttled login, signup, profile reads and updates, and the
// session tokens handed out after a successful login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/common"
	"github.com/dmitrijs2005/cryptown/internal/logging"
	"github.com/dmitrijs2005/cryptown/internal/server/auth"
	"github.com/dmitrijs2005/cryptown/internal/server/config"
	"github.com/dmitrijs2005/cryptown/internal/server/models"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cryptown/internal/server/sessioncache"
	"github.com/dmitrijs2005/cryptown/internal/server/validation"
	"github.com/google/uuid"
)

// LoginMeta describes the caller of Login. It only ends up in logs.
type LoginMeta struct {
	ClientIP  string
	RequestID string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.Hasher
	cache       sessioncache.Cache
	log         logging.Logger

	policy        validation.PasswordPolicy
	maxAttempts   int
	banWindow     time.Duration
	jwtSecret     []byte
	tokenValidity time.Duration

	now func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	hasher auth.Hasher, cache sessioncache.Cache, log logging.Logger) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		hasher:        hasher,
		cache:         cache,
		log:           log,
		policy:        cfg.PasswordPolicy,
		maxAttempts:   cfg.MaxLoginAttempts,
		banWindow:     cfg.BanWindow,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.SessionTokenValidityDuration,
		now:           time.Now,
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorStore, err)
}

// Login checks credentials under the attempt limit. After maxAttempts
// failures the account is banned for banWindow; the first call after the
// window expires lifts the ban and proceeds as normal.
func (s *UserService) Login(ctx context.Context, email, password string, meta LoginMeta) (*models.User, error) {
	log := s.log.With("email", email, "client_ip", meta.ClientIP, "request_id", meta.RequestID)

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}
	if err := validation.EmailCharset(email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			log.Info(ctx, "login failed", "reason", "unknown email")
			return nil, common.ErrorUnauthorized
		}
		return nil, storeErr(err)
	}

	now := s.now()
	banned := user.BanDateTime != nil

	if banned && now.Sub(*user.BanDateTime) > s.banWindow {
		if err := repo.LiftBan(ctx, user.ID); err != nil {
			return nil, storeErr(err)
		}
		user.Attempts = 0
		user.BanDateTime = nil
		banned = false
		log.Info(ctx, "ban lifted", "user_id", user.ID)
	}

	if user.Attempts >= s.maxAttempts {
		log.Warn(ctx, "login rejected while banned", "user_id", user.ID)
		return nil, common.ErrorRateLimited
	}

	ok, err := s.hasher.Compare(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !ok {
		attempts, err := repo.RecordFailedAttempt(ctx, user.ID, s.maxAttempts, now)
		if err != nil {
			return nil, storeErr(err)
		}
		if attempts >= s.maxAttempts && !banned {
			log.Warn(ctx, "ban started", "user_id", user.ID, "attempts", attempts)
			return nil, common.ErrorRateLimited
		}
		log.Info(ctx, "login failed", "reason", "wrong password", "user_id", user.ID, "attempts", attempts)
		return nil, common.ErrorUnauthorized
	}

	if err := repo.ResetAttempts(ctx, user.ID); err != nil {
		return nil, storeErr(err)
	}
	user.Attempts = 0

	log.Debug(ctx, "login succeeded", "user_id", user.ID)
	return user, nil
}

// Signup registers a new account. The username is stored HTML-escaped and
// the password hashed with a fresh salt.
func (s *UserService) Signup(ctx context.Context, email, userName, password, confirmPassword string) (*models.User, error) {
	if email == "" || userName == "" || password == "" || confirmPassword == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if err := validation.Email(email); err != nil {
		return nil, err
	}
	if err := validation.Password(password, s.policy); err != nil {
		return nil, err
	}
	if password != confirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: email already registered", common.ErrorAlreadyExists)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, storeErr(err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := repo.Create(ctx, &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		UserName: validation.EscapeHTML(userName),
		Password: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorAlreadyExists)
		}
		return nil, storeErr(err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, common.ErrorValidation) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return hash, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrorNotFound)
		}
		return nil, storeErr(err)
	}
	return user, nil
}

// UpdateProfile changes username and, when password is non-empty, the
// password. Empty inputs leave the stored values as they are.
func (s *UserService) UpdateProfile(ctx context.Context, userID, userName, password, confirmPassword string) (*models.User, error) {
	if password != "" {
		if err := validation.Password(password, s.policy); err != nil {
			return nil, err
		}
	}
	if password != confirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	var hash string
	if password != "" {
		var err error
		if hash, err = s.hashPassword(password); err != nil {
			return nil, err
		}
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateProfile(ctx, userID, validation.EscapeHTML(userName), hash); err != nil {
		return nil, storeErr(err)
	}

	return s.Profile(ctx, userID)
}

// Logout revokes one session token owned by userID.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	if _, err := s.Profile(ctx, userID); err != nil {
		return err
	}

	tokens := s.repomanager.SessionTokens(s.db)
	if _, err := tokens.Find(ctx, token, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: token does not exist", common.ErrorNotFound)
		}
		return storeErr(err)
	}

	// Evict first: a token still in the store but missing from the cache is
	// only a cache miss, the reverse would keep a revoked token alive.
	if err := s.cache.Evict(ctx, token); err != nil {
		return storeErr(err)
	}

	n, err := tokens.Delete(ctx, token, userID)
	if err != nil {
		return storeErr(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: token was not deleted", common.ErrorStore)
	}

	s.log.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// IssueSession mints a session token for userID and records it so it can be
// revoked by Logout.
func (s *UserService) IssueSession(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.repomanager.SessionTokens(s.db).Create(ctx, userID, token); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("%w: user not found", common.ErrorNotFound)
		}
		return "", storeErr(err)
	}

	if err := s.cache.Put(ctx, token, userID, s.tokenValidity); err != nil {
		s.log.Warn(ctx, "session cache put failed", "user_id", userID, "error", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to its user. The token must verify
// and must not have been revoked.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", err
	}

	cached, ok, err := s.cache.Lookup(ctx, token)
	if err != nil {
		s.log.Warn(ctx, "session cache lookup failed", "error", err)
	}
	if ok && cached == userID {
		return userID, nil
	}

	rec, err := s.repomanager.SessionTokens(s.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("%w: session revoked", common.ErrorUnauthorized)
		}
		return "", storeErr(err)
	}
	if rec.UserID != userID {
		return "", fmt.Errorf("%w: session owner mismatch", common.ErrorUnauthorized)
	}

	return userID, nil
}

// Stats reports the number of registered users and live sessions.
func (s *UserService) Stats(ctx context.Context) (*models.Stats, error) {
	users, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	sessions, err := s.repomanager.SessionTokens(s.db).Count(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return &models.Stats{UserCount: users, ActiveUserCount: sessions}, nil
}
