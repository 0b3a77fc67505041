// Package postgres stores questions and answers in a SQL database through gorm.
// Production runs on PostgreSQL; tests and local development use SQLite.
package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

// Store implements repositories.Repository on a gorm connection.
type Store struct {
	db        *gorm.DB
	questions *QuestionPostgreSQL
	answers   *AnswerPostgreSQL
}

var _ repositories.Repository = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		questions: NewQuestionPostgreSQL(db),
		answers:   NewAnswerPostgreSQL(db),
	}
}

// AutoMigrate creates the question, option and answer tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Question{}, &models.Option{}, &models.AnswerRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *Store) Question() repositories.QuestionRepository {
	return s.questions
}

func (s *Store) Answer() repositories.AnswerRepository {
	return s.answers
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
