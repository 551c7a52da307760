package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTechnologyValid(t *testing.T) {
	assert.True(t, TechnologyJavaScript.Valid())
	assert.True(t, Technology("SPRING").Valid())
	assert.False(t, Technology("javascript").Valid())
	assert.False(t, Technology("").Valid())
}

func TestQuestionType(t *testing.T) {
	assert.True(t, QuestionTypeMultipleChoice.HasOptions())
	assert.False(t, QuestionTypeDirectAnswer.HasOptions())
	assert.False(t, QuestionType("ESSAY").Valid())
	assert.False(t, QuestionType("ESSAY").HasOptions())
}

func TestUserRoleNames(t *testing.T) {
	u := User{Roles: []Role{{Name: RoleUser}, {Name: RoleAdmin}}}
	assert.Equal(t, []string{RoleUser, RoleAdmin}, u.RoleNames())
	assert.Empty(t, (&User{}).RoleNames())
}
