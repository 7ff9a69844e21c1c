package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blogdesk/blogdesk-go/internal/apiclient"
)

var (
	ErrNotSignedIn     = errors.New("please sign in to continue")
	ErrNotAuthorized   = errors.New("you are not authorized to perform this action")
	ErrRequestInFlight = errors.New("this action is already in progress")
)

// ValidationError is a rejected form input. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Tag     string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthorizationError is returned when the signed-in identity does not own
// the resource. It matches ErrNotAuthorized.
type AuthorizationError struct {
	Action string
}

func (e *AuthorizationError) Error() string {
	return "you are not authorized to " + e.Action
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrNotAuthorized
}

// Message turns err into the text of a user-facing notice. Errors without a
// known user-facing form yield fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var authzErr *AuthorizationError
	if errors.As(err, &authzErr) {
		return "You are not authorized to " + authzErr.Action
	}
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}

	switch {
	case errors.Is(err, ErrRequestInFlight):
		return "This action is already in progress"
	case errors.Is(err, ErrNotSignedIn):
		return "Please sign in to continue"
	case errors.Is(err, ErrNotAuthorized):
		return "You are not authorized to perform this action"
	}
	return fallback
}

// validateInput runs struct validation and converts the first failure.
func validateInput(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Tag: fe.Tag(), Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	label := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return capitalize(label) + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return capitalize(label) + " must be at least " + fe.Param() + " characters"
	case "max":
		return capitalize(label) + " must be at most " + fe.Param() + " characters"
	}
	return capitalize(label) + " is invalid"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
