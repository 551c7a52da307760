package models

import (
	"time"
)

type Technology string

const (
	TechnologySpring     Technology = "SPRING"
	TechnologyAngular    Technology = "ANGULAR"
	TechnologyBoth       Technology = "BOTH"
	TechnologyJava       Technology = "JAVA"
	TechnologyJavaScript Technology = "JAVASCRIPT"
	TechnologyTypeScript Technology = "TYPESCRIPT"
	TechnologyPython     Technology = "PYTHON"
	TechnologyGo         Technology = "GO"
	TechnologyOther      Technology = "OTHER"
)

var technologies = map[Technology]struct{}{
	TechnologySpring:     {},
	TechnologyAngular:    {},
	TechnologyBoth:       {},
	TechnologyJava:       {},
	TechnologyJavaScript: {},
	TechnologyTypeScript: {},
	TechnologyPython:     {},
	TechnologyGo:         {},
	TechnologyOther:      {},
}

// Valid reports whether t is one of the known technology tags.
func (t Technology) Valid() bool {
	_, ok := technologies[t]
	return ok
}

type Quiz struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Technology  Technology `json:"technology" gorm:"type:varchar(32)"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}
