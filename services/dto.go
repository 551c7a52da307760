package services

import (
	"time"

	"github.com/Pland4r/qcm-creator-hub/models"
)

// QuizRequest is the incoming representation for both create and update.
// Update replaces every question and option with the ones given here.
type QuizRequest struct {
	Title       string            `json:"title" binding:"required,max=255"`
	Description string            `json:"description"`
	Technology  models.Technology `json:"technology" binding:"required,technology"`
	Questions   []QuestionRequest `json:"questions" binding:"omitempty,dive"`
}

type QuestionRequest struct {
	Text         string              `json:"text" binding:"required,max=500"`
	ImageURL     string              `json:"imageUrl" binding:"max=1000"`
	QuestionType models.QuestionType `json:"questionType" binding:"omitempty,question_type"`
	DirectAnswer string              `json:"directAnswer" binding:"max=500"`
	Options      []OptionRequest     `json:"options" binding:"omitempty,dive"`
}

type OptionRequest struct {
	Text    string `json:"text" binding:"required,max=500"`
	Correct bool   `json:"correct"`
}

type QuizResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Technology  models.Technology  `json:"technology"`
	CreatedAt   time.Time          `json:"createdAt"`
	Questions   []QuestionResponse `json:"questions"`
}

type QuestionResponse struct {
	ID           uint                `json:"id"`
	Text         string              `json:"text"`
	ImageURL     string              `json:"imageUrl,omitempty"`
	QuestionType models.QuestionType `json:"questionType"`
	DirectAnswer string              `json:"directAnswer,omitempty"`
	Options      []OptionResponse    `json:"options"`
}

type OptionResponse struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email,max=50"`
	Password string `json:"password" binding:"required,min=6,max=40"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type UserResponse struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}
