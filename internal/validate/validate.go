// Package validate checks request payloads with struct tags and reports
// field errors in English, keyed by JSON field name.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// custom validation tags
const (
	notBlankTag = "notblank"
	dateTag     = "isodate"
)

// Validator implements echo.Validator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates a validator with English translations and the custom tags.
func New() *Validator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, notBlank)
	_ = v.RegisterValidation(dateTag, isDate)

	vl := &Validator{validate: v, translator: trans}
	vl.registerCustomTranslations(notBlankTag, dateTag)
	return vl
}

// Validate runs the struct tags of i.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Fields translates validation errors into a field -> message map. It
// returns nil for any other error.
func (v *Validator) Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out
}

// registerCustomTranslations registers messages for the custom tags. The
// register func is a noop since the default translations are already loaded.
func (v *Validator) registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = v.validate.RegisterTranslation(tag, v.translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case dateTag:
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	default:
		return ""
	}
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// isDate accepts YYYY-MM-DD. Empty strings pass; combine with required.
func isDate(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if str == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, str)
	return err == nil
}
