// Package validator wraps go-playground/validator with translated,
// structured field errors for request validation.
package validator

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Validator checks struct fields against their `binding` tags.
type Validator interface {
	Struct(s any) error
	Engine() *validator.Validate
}

// FieldError is one failed constraint on one field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// Errors is the full set of failed constraints for one Struct call.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// AsErrors extracts the structured field errors from err, if present.
func AsErrors(err error) (*Errors, bool) {
	var ve *Errors
	ok := errors.As(err, &ve)
	return ve, ok
}

type impl struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	global Validator
	once   sync.Once
)

// Default returns the process-wide validator.
func Default() Validator {
	once.Do(func() {
		global = New()
	})
	return global
}

// New creates a validator translating messages to English. The zh
// locale is registered so callers can switch the translator through
// Engine() when serving localized messages.
func New() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())

	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	if zhTrans, found := uni.GetTranslator("zh"); found {
		_ = zh_translations.RegisterDefaultTranslations(v, zhTrans)
	}

	return &impl{validate: v, trans: trans}
}

func (i *impl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}

	err := i.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Errors{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: fe.Translate(i.trans),
		})
	}
	return out
}

func (i *impl) Engine() *validator.Validate {
	return i.validate
}
