package models

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeDirectAnswer   QuestionType = "DIRECT_ANSWER"
)

// Valid reports whether qt is a known question kind.
func (qt QuestionType) Valid() bool {
	return qt == QuestionTypeMultipleChoice || qt == QuestionTypeDirectAnswer
}

// HasOptions reports whether questions of this kind carry options.
func (qt QuestionType) HasOptions() bool {
	return qt == QuestionTypeMultipleChoice
}

type Question struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	QuizID       uint         `json:"quiz_id" gorm:"not null;index"`
	Text         string       `json:"text" gorm:"size:500;not null"`
	ImageURL     string       `json:"image_url" gorm:"size:1000"`
	QuestionType QuestionType `json:"question_type" gorm:"type:varchar(32);not null;default:'MULTIPLE_CHOICE'"`
	DirectAnswer string       `json:"direct_answer" gorm:"size:500"`

	// Relationships
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}
