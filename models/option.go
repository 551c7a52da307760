package models

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"size:500;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
}
