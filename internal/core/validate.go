package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateTaskInput checks the fields of a create or update request and
// returns one error naming every invalid field.
func ValidateTaskInput(in models.TaskInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating task: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("task validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", fieldName(fe.Field()))
	case "datetime":
		return fmt.Sprintf("%s %q must be a date in YYYY-MM-DD form", fieldName(fe.Field()), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s %q is invalid, must be one of: todo, in-progress, done", fieldName(fe.Field()), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q check", fieldName(fe.Field()), fe.Tag())
	}
}

func fieldName(goName string) string {
	switch goName {
	case "DueDate":
		return "due date"
	default:
		return strings.ToLower(goName)
	}
}
