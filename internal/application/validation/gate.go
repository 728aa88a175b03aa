package validation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/devconnector/pkg/apperror"
)

// DateLayouts are the accepted spellings of experience/education dates.
var DateLayouts = []string{"2006-01-02", time.RFC3339}

// Rule checks one field against a validator tag.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

type Ruleset []Rule

var (
	ProfileRules = Ruleset{
		{Field: "status", Tag: "notblank", Message: "Status is Required"},
		{Field: "skills", Tag: "notblank", Message: "Skills is Required"},
		{Field: "website", Tag: "omitempty,url", Message: "Website must be a valid URL"},
	}

	ExperienceRules = Ruleset{
		{Field: "title", Tag: "notblank", Message: "Title is required"},
		{Field: "company", Tag: "notblank", Message: "Company is required"},
		{Field: "from", Tag: "notblank", Message: "From date is required"},
		{Field: "from", Tag: "omitempty,date", Message: "From date must be a valid date"},
		{Field: "to", Tag: "omitempty,date", Message: "To date must be a valid date"},
	}

	EducationRules = Ruleset{
		{Field: "school", Tag: "notblank", Message: "School is required"},
		{Field: "degree", Tag: "notblank", Message: "Degree is required"},
		{Field: "fieldofstudy", Tag: "notblank", Message: "Field of study is required"},
		{Field: "from", Tag: "notblank", Message: "From date is required"},
		{Field: "from", Tag: "omitempty,date", Message: "From date must be a valid date"},
		{Field: "to", Tag: "omitempty,date", Message: "To date must be a valid date"},
	}
)

type Gate struct {
	validate *validator.Validate
}

func NewGate() *Gate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	return &Gate{validate: v}
}

// Check runs every rule and reports all failing fields at once. A field
// missing from values is treated as an empty string.
func (g *Gate) Check(rules Ruleset, values map[string]string) error {
	var failed []apperror.FieldError
	for _, r := range rules {
		if err := g.validate.Var(values[r.Field], r.Tag); err != nil {
			failed = append(failed, apperror.FieldError{Field: r.Field, Message: r.Message})
		}
	}
	if len(failed) > 0 {
		return apperror.NewValidation(failed)
	}
	return nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the instant in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
