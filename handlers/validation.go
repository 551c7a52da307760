package handlers

import (
	"errors"
	"fmt"

	"github.com/Pland4r/qcm-creator-hub/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the enum rules used by request binding tags.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}

	rules := map[string]validator.Func{
		"technology": func(fl validator.FieldLevel) bool {
			return models.Technology(fl.Field().String()).Valid()
		},
		"question_type": func(fl validator.FieldLevel) bool {
			return models.QuestionType(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}

// bindingMessage turns validator errors into a short client-facing message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "technology":
		return fmt.Sprintf("unknown technology %q", fe.Value())
	case "question_type":
		return fmt.Sprintf("unknown question type %q", fe.Value())
	case "email":
		return "email must be a valid address"
	case "min", "max":
		return fmt.Sprintf("%s must respect %s=%s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
