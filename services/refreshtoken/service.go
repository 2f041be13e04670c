// Package refreshtoken persists the one-row-per-user mapping from user id to
// the currently valid refresh token.
package refreshtoken

import (
	"context"
	"errors"
	"fmt"

	"github.com/scribe-app/scribe/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("refresh token not found")

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Upsert stores token as the current refresh token for userID, replacing any
// previous value. The conflict clause rides on the unique user_id index, so
// concurrent logins for the same user can never produce two rows.
func (s *Service) Upsert(ctx context.Context, userID int64, token string) error {
	row := RefreshToken{
		UserID: userID,
		Token:  token,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token"}),
	}).Create(&row).Error
	if err != nil {
		s.logger.Error("failed to upsert refresh token",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert refresh token: %w", err)
	}

	s.logger.Debug("refresh token stored", zap.Int64("user_id", userID))
	return nil
}

func (s *Service) FindByUserID(ctx context.Context, userID int64) (*RefreshToken, error) {
	var row RefreshToken
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &row, nil
}

func (s *Service) FindByToken(ctx context.Context, token string) (*RefreshToken, error) {
	var row RefreshToken
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &row, nil
}
