package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Pland4r/qcm-creator-hub/events"
	"github.com/Pland4r/qcm-creator-hub/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db        *gorm.DB
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewQuizService(db *gorm.DB, publisher events.Publisher, logger *slog.Logger) *QuizService {
	return &QuizService{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "quiz_service"),
		now:       time.Now,
	}
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]QuizResponse, error) {
	var quizzes []models.Quiz
	err := s.withChildren(s.db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return toQuizResponses(quizzes), nil
}

// ListUserQuizzes returns the quizzes owned by userID, newest first.
func (s *QuizService) ListUserQuizzes(ctx context.Context, userID uint) ([]QuizResponse, error) {
	var quizzes []models.Quiz
	err := s.withChildren(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return toQuizResponses(quizzes), nil
}

func (s *QuizService) GetQuiz(ctx context.Context, quizID uint) (*QuizResponse, error) {
	var quiz models.Quiz
	err := s.withChildren(s.db.WithContext(ctx)).First(&quiz, quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := toQuizResponse(quiz)
	return &resp, nil
}

func (s *QuizService) CreateQuiz(ctx context.Context, userID uint, req *QuizRequest) (uint, error) {
	var quiz models.Quiz

	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("acting user %d: %w", userID, ErrUserNotFound)
			}
			return err
		}

		quiz = models.Quiz{
			Title:       req.Title,
			Description: req.Description,
			Technology:  req.Technology,
			UserID:      user.ID,
			CreatedAt:   s.now(),
		}
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}

		return createQuestions(tx, quiz.ID, req.Questions)
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, events.QuizCreated, quiz.ID, userID)
	return quiz.ID, nil
}

// UpdateQuiz overwrites the quiz fields and replaces every question and
// option with the ones in req. Surviving questions get new identifiers.
func (s *QuizService) UpdateQuiz(ctx context.Context, quizID uint, userID uint, req *QuizRequest) error {
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		quiz, err := loadOwnedQuiz(tx, quizID, userID)
		if err != nil {
			return err
		}

		err = tx.Model(quiz).Updates(map[string]any{
			"title":       req.Title,
			"description": req.Description,
			"technology":  req.Technology,
		}).Error
		if err != nil {
			return err
		}

		if err := deleteQuestions(tx, quiz.ID); err != nil {
			return err
		}

		return createQuestions(tx, quiz.ID, req.Questions)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.QuizUpdated, quizID, userID)
	return nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, quizID uint, userID uint) error {
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		quiz, err := loadOwnedQuiz(tx, quizID, userID)
		if err != nil {
			return err
		}

		if err := deleteQuestions(tx, quiz.ID); err != nil {
			return err
		}

		return tx.Delete(&models.Quiz{}, quiz.ID).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.QuizDeleted, quizID, userID)
	return nil
}

func (s *QuizService) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		})
}

func (s *QuizService) publish(ctx context.Context, eventType string, quizID, userID uint) {
	if s.publisher == nil {
		return
	}
	event := events.QuizEvent{
		Type:       eventType,
		QuizID:     quizID,
		UserID:     userID,
		OccurredAt: s.now(),
	}
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish quiz event", "type", eventType, "quiz_id", quizID, "error", err)
	}
}

func loadOwnedQuiz(tx *gorm.DB, quizID, userID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := tx.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, ErrNotQuizOwner
	}
	return &quiz, nil
}

// createQuestions inserts questions in input order so identifiers follow it.
// Options are only persisted for multiple-choice questions.
func createQuestions(tx *gorm.DB, quizID uint, questions []QuestionRequest) error {
	for _, qReq := range questions {
		questionType := qReq.QuestionType
		if questionType == "" {
			questionType = models.QuestionTypeMultipleChoice
		}

		question := models.Question{
			QuizID:       quizID,
			Text:         qReq.Text,
			ImageURL:     qReq.ImageURL,
			QuestionType: questionType,
		}
		if !questionType.HasOptions() {
			question.DirectAnswer = qReq.DirectAnswer
		}

		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		if !questionType.HasOptions() {
			continue
		}

		for _, optReq := range qReq.Options {
			option := models.Option{
				QuestionID: question.ID,
				Text:       optReq.Text,
				IsCorrect:  optReq.Correct,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// deleteQuestions removes all options and questions of a quiz.
func deleteQuestions(tx *gorm.DB, quizID uint) error {
	questionIDs := tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quizID)
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
		return err
	}
	return tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error
}

func toQuizResponses(quizzes []models.Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		out = append(out, toQuizResponse(quiz))
	}
	return out
}

func toQuizResponse(quiz models.Quiz) QuizResponse {
	resp := QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Technology:  quiz.Technology,
		CreatedAt:   quiz.CreatedAt,
		Questions:   make([]QuestionResponse, 0, len(quiz.Questions)),
	}

	for _, question := range quiz.Questions {
		qResp := QuestionResponse{
			ID:           question.ID,
			Text:         question.Text,
			ImageURL:     question.ImageURL,
			QuestionType: question.QuestionType,
			Options:      []OptionResponse{},
		}

		if question.QuestionType.HasOptions() {
			for _, option := range question.Options {
				qResp.Options = append(qResp.Options, OptionResponse{
					ID:      option.ID,
					Text:    option.Text,
					Correct: option.IsCorrect,
				})
			}
		} else {
			qResp.DirectAnswer = question.DirectAnswer
		}

		resp.Questions = append(resp.Questions, qResp)
	}

	return resp
}
