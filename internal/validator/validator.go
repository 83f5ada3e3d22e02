package validator

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// trans is the singleton English translator for validation errors.
	trans ut.Translator
	once  sync.Once

	personNamePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	digitPattern      = regexp.MustCompile(`\d`)
	phoneSeparators   = regexp.MustCompile(`[\s-]`)
	// Indian mobile numbers: +91 followed by 10 digits starting with 6-9.
	indianPhonePattern = regexp.MustCompile(`^\+91[6-9]\d{9}$`)
)

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

// Normalizer is implemented by request DTOs that trim or canonicalize
// fields before validation runs.
type Normalizer interface {
	Normalize()
}

// customRule is a project-specific validation tag and its English message.
type customRule struct {
	tag     string
	fn      govalidator.Func
	message string
}

var customRules = []customRule{
	{
		tag:     "personname",
		fn:      func(fl govalidator.FieldLevel) bool { return ValidPersonName(fl.Field().String()) },
		message: "{0} should only contain letters, spaces, hyphens, and apostrophes",
	},
	{
		tag:     "inphone",
		fn:      func(fl govalidator.FieldLevel) bool { return ValidPhone(fl.Field().String()) },
		message: "Please enter a valid Indian phone number (e.g., +91 98765 43210)",
	},
	{
		tag:     "bcryptlen",
		fn:      func(fl govalidator.FieldLevel) bool { return ValidPasswordLength(fl.Field().String()) },
		message: "{0} must be at most 72 bytes long",
	},
}

// Setup registers the validator with English translations and custom rules
// on Gin's binding engine. Safe to call more than once.
func Setup() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		for _, rule := range customRules {
			rule := rule
			_ = v.RegisterValidation(rule.tag, rule.fn)
			_ = v.RegisterTranslation(rule.tag, trans,
				func(ut ut.Translator) error { return ut.Add(rule.tag, rule.message, true) },
				func(ut ut.Translator, fe govalidator.FieldError) string {
					msg, _ := ut.T(rule.tag, fe.Field())
					return msg
				},
			)
		}
	})
}

// ValidPersonName accepts letters, spaces, hyphens and apostrophes, and never digits.
func ValidPersonName(name string) bool {
	return personNamePattern.MatchString(name) && !digitPattern.MatchString(name)
}

// ValidPhone reports whether phone is an Indian mobile number once spaces
// and hyphens are stripped. Empty input is rejected; optionality is the
// caller's concern.
func ValidPhone(phone string) bool {
	clean := phoneSeparators.ReplaceAllString(phone, "")
	return indianPhonePattern.MatchString(clean)
}

// ValidPasswordLength reports whether password fits in bcrypt's input limit.
func ValidPasswordLength(password string) bool {
	return len(password) <= MaxPasswordBytes
}

// Var validates a single value against a tag expression (e.g. "required,email").
func Var(value interface{}, tag string) error {
	Setup()
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return errors.New("validator engine unavailable")
	}
	return v.Var(value, tag)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind decodes the JSON request body into dst, normalizes it when dst
// implements Normalizer, then validates it with the binding tags.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := decode(c, dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is required")
		}
		return TranslateErrors(err)
	}
	return validate(dst)
}

// BindOptional is Bind for endpoints whose body may be omitted entirely.
func BindOptional(c *gin.Context, dst interface{}) map[string]string {
	if err := decode(c, dst); err != nil && !errors.Is(err, io.EOF) {
		return TranslateErrors(err)
	}
	return validate(dst)
}

// decode reads the body without gin's binding so Normalize can run before
// the validation tags are checked.
func decode(c *gin.Context, dst interface{}) error {
	if c.Request.Body == nil {
		return io.EOF
	}
	return json.NewDecoder(c.Request.Body).Decode(dst)
}

func validate(dst interface{}) map[string]string {
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
