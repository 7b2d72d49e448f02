package submission

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"sanskaar/booking/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// scheduleInput carries the format rules applied once every required field is present.
type scheduleInput struct {
	Date      string `json:"date" validate:"datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"datetime=15:04"`
	EndTime   string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

// requiredFields is the order in which presence is checked.
var requiredFields = []struct {
	name  string
	value func(domain.Selection) string
}{
	{"category", func(s domain.Selection) string { return s.CategoryID }},
	{"service", func(s domain.Selection) string { return s.ServiceID }},
	{"provider", func(s domain.Selection) string { return s.ProviderID }},
	{"date", func(s domain.Selection) string { return s.Date }},
	{"startTime", func(s domain.Selection) string { return s.StartTime }},
}

// Validate returns the first *domain.MissingFieldError in the order category,
// service, provider, date, startTime; then any *domain.InvalidFieldError.
func Validate(sel domain.Selection, notesMaxLength int) error {
	for _, field := range requiredFields {
		if strings.TrimSpace(field.value(sel)) == "" {
			return &domain.MissingFieldError{Field: field.name}
		}
	}

	input := scheduleInput{
		Date:      strings.TrimSpace(sel.Date),
		StartTime: strings.TrimSpace(sel.StartTime),
		EndTime:   strings.TrimSpace(sel.EndTime),
	}
	if err := validate.Struct(input); err != nil {
		return invalidField(err)
	}

	if notesMaxLength > 0 {
		if err := validate.Var(sel.Notes, fmt.Sprintf("max=%d", notesMaxLength)); err != nil {
			return &domain.InvalidFieldError{
				Field:  "notes",
				Reason: fmt.Sprintf("must be at most %d characters", notesMaxLength),
			}
		}
	}

	return nil
}

func invalidField(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validation failed: %w", err)
	}

	fe := verrs[0]
	reason := fmt.Sprintf("failed %s", fe.Tag())
	if fe.Tag() == "datetime" {
		reason = fmt.Sprintf("must match %s", fe.Param())
	}
	return &domain.InvalidFieldError{Field: fe.Field(), Reason: reason}
}
