package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

var (
	reSlug   = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)
	reDigits = regexp.MustCompile(`^[0-9]+$`)

	notificationTypes = []string{"basic", "email"}
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps snake_case field names to translated messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustomRules(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	errV10 := make(V10ValidationError, len(validateErrs))
	for _, fe := range validateErrs {
		errV10[lo.SnakeCase(fe.Field())] = fe.Translate(v.translator)
	}

	return errV10
}

type customRule struct {
	tag     string
	message string
	fn      validator.Func
}

func customRules() []customRule {
	return []customRule{
		{
			tag:     "slug",
			message: "{0} must be a lowercase identifier",
			fn: func(fl validator.FieldLevel) bool {
				return reSlug.MatchString(fl.Field().String())
			},
		},
		{
			tag:     "notification_type",
			message: "{0} must be one of " + strings.Join(notificationTypes, ", "),
			fn: func(fl validator.FieldLevel) bool {
				return lo.Contains(notificationTypes, fl.Field().String())
			},
		},
		{
			tag:     "recipient_list",
			message: "{0} must be a comma separated list of email addresses",
			fn: func(fl validator.FieldLevel) bool {
				for _, item := range strings.Split(fl.Field().String(), ",") {
					item = strings.TrimSpace(item)
					if item == "" {
						continue
					}
					// digits alone name a user id at delivery time
					if reDigits.MatchString(item) {
						return false
					}
					addr, err := mail.ParseAddress(item)
					if err != nil || addr.Address != item {
						return false
					}
				}
				return true
			},
		},
	}
}

func registerCustomRules(validate *validator.Validate, enTrans ut.Translator) error {
	for _, rule := range customRules() {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return err
		}

		msg := rule.message
		if err := validate.RegisterTranslation(rule.tag, enTrans,
			func(t ut.Translator) error {
				return t.Add(rule.tag, msg, false)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				out, err := t.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("failed to translate validation error", "tag", fe.Tag(), "error", err)
					return fe.Error()
				}
				return out
			},
		); err != nil {
			return err
		}
	}

	return nil
}
