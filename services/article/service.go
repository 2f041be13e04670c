// Package article stores the domain content the protected API serves.
package article

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("article not found")
	ErrEmptyTitle = errors.New("article title must not be empty")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context) ([]Article, error) {
	var articles []Article
	if err := s.db.WithContext(ctx).Order("id").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return articles, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Article, error) {
	var a Article
	err := s.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &a, nil
}

func (s *Service) Create(ctx context.Context, title, content, author string) (*Article, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}

	a := Article{
		Title:   title,
		Content: content,
		Author:  author,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return &a, nil
}

func (s *Service) Update(ctx context.Context, id int64, title, content string) (*Article, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		a.Title = title
	}
	a.Content = content

	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&Article{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete article: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
