// Package user is the directory other services resolve identities against.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/scribe-app/scribe/config"
	"github.com/scribe-app/scribe/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrEmptyEmail    = errors.New("email must not be empty")
	ErrEmptyPassword = errors.New("password must not be empty")
)

type Service struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *logging.Service
}

func NewService(db *gorm.DB, cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &u, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &u, nil
}

// Upsert creates the user on first external login and refreshes the display
// name on every later one. The conflict clause on the unique email column
// keeps concurrent first logins from racing into two rows.
func (s *Service) Upsert(ctx context.Context, email, name string) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}

	row := User{
		Email:    email,
		Nickname: name,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"nickname"}),
	}).Create(&row).Error
	if err != nil {
		s.logger.Error("failed to upsert user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	// On conflict-update the driver does not report the surviving row's id,
	// so read it back by its natural key.
	return s.FindByEmail(ctx, email)
}

// Create registers a local password-based account.
func (s *Service) Create(ctx context.Context, email, password string) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := User{
		Email:    email,
		Password: string(hash),
	}

	err = s.db.WithContext(ctx).Create(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		// Unique violations surface differently per driver; a row check keeps
		// the sentinel stable across sqlite, postgres and mysql.
		if _, lookupErr := s.FindByEmail(ctx, email); lookupErr == nil {
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", u.ID))
	return &u, nil
}

// CheckPassword compares a candidate password against the stored hash.
func (s *Service) CheckPassword(u *User, password string) bool {
	if u == nil || u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
