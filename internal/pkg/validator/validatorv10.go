package validator

import (
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/gosocial/internal/pkg/strcase"
)

var (
	reOTPCode = regexp.MustCompile(`^[0-9]{4}$`)
	// Egyptian mobile numbers: 010, 011, 012 or 015 followed by 8 digits.
	rePhone = regexp.MustCompile(`^01[0125][0-9]{8}$`)
)

// ErrTranslatorNotFound indicates the English translator is unavailable.
var ErrTranslatorNotFound = errors.New("validator: translator not found")

// V10ValidationError maps snake_case field names to messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}
	b, err := json.Marshal(map[string]string(vs))
	if err != nil {
		return "validation error"
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string { return vs }

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewV10Validator registers English translations and the custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	for _, r := range customRules {
		if err := validate.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, err
		}
		if err := validate.RegisterTranslation(r.tag, trans, registerMessage(r.tag, r.message), translate); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: validate, translator: trans}, nil
}

// Validate returns nil or a V10ValidationError.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(V10ValidationError, len(verrs))
	for _, fe := range verrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}
	return out
}

type rule struct {
	tag     string
	message string
	fn      validator.Func
}

var customRules = []rule{
	{tag: "password", message: "{0} must be 8-72 characters with a lowercase letter, an uppercase letter and a digit", fn: isPassword},
	{tag: "alphaspace", message: "{0} can contain only letters and spaces", fn: isAlphaSpace},
	{tag: "otpcode", message: "{0} must be a 4 digit code", fn: matchString(reOTPCode)},
	{tag: "phone", message: "{0} must be a valid mobile number", fn: matchString(rePhone)},
}

func isPassword(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if len(p) < 8 || len(p) > 72 {
		return false
	}

	var lower, upper, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func isAlphaSpace(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// registerMessage overrides any default message for tag; the en
// translations already ship some of the custom tags, alphaspace among them.
func registerMessage(tag, msg string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}
}

func translate(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), strcase.ToLowerSnake(fe.Field()))
	if err != nil {
		slog.Warn("failed to translate validation error", "tag", fe.Tag(), "error", err)
		return fe.Error()
	}
	return msg
}
