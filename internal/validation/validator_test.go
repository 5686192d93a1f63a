package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Date  string `validate:"required,date"`
	Start string `validate:"required,clock"`
	Phone string `validate:"omitempty,phone"`
	Slug  string `validate:"omitempty,slug"`
	Email string `validate:"required,email"`
}

type tagged struct {
	FullName string `json:"full_name" validate:"required"`
	Internal string `json:"-" validate:"required"`
}

func TestValidatorCustomTags(t *testing.T) {
	v := New()

	ok := sample{Date: "2026-05-01", Start: "09:30", Phone: "087-1234567", Slug: "family-law", Email: "a@b.ie"}
	assert.NoError(t, v.Struct(ok))

	bad := sample{Date: "01/05/2026", Start: "9.30", Phone: "call me", Slug: "Family Law", Email: "nope"}
	errs := v.ValidationErrors(v.Struct(bad))
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field()] = e.Tag()
	}
	assert.Equal(t, map[string]string{
		"Date":  "date",
		"Start": "clock",
		"Phone": "phone",
		"Slug":  "slug",
		"Email": "email",
	}, fields)
}

func TestValidationErrorsNil(t *testing.T) {
	v := New()
	assert.Nil(t, v.ValidationErrors(nil))
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	v := New()
	errs := v.ValidationErrors(v.Struct(tagged{}))
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field()] = e.Tag()
	}
	assert.Equal(t, map[string]string{
		"full_name": "required",
		"Internal":  "required",
	}, fields)
}
