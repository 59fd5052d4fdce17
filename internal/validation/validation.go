// Package validation checks request payloads and turns failures into the
// user-facing messages the API returns.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
)

const (
	MsgTodoTextEmpty   = "Le texte ne peut pas être vide"
	MsgTodoTextTooLong = "Texte trop long"
)

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]+$`)
	passwordSpecials  = "!@#$%^&*.,;:/?+=()_-"
)

// messages maps "field.tag" to the text returned to clients.
var messages = map[string]string{
	"name.required":              "Le nom est requis",
	"name.min":                   "Nom trop court",
	"name.max":                   "Nom trop long",
	"name.person_name":           "Le nom contient des caractères invalides",
	"email.required":             "L'email est requis",
	"email.email":                "Format d'email invalide",
	"email.max":                  "Email trop long",
	"password.required":          "Le mot de passe est requis",
	"password.min":               "Mot de passe trop court",
	"password.password_strength": "Le mot de passe doit contenir au moins une minuscule, une majuscule, un chiffre et un caractère spécial",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	return v
}

// StrongPassword reports whether p mixes lower and upper case letters, a
// digit and one of the accepted special characters.
func StrongPassword(p string) bool {
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// Struct validates a tagged request payload. The returned error is a
// common.ErrValidation carrying the message of the first failing rule.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return common.Validation(msg)
		}
	}
	return common.Validation(common.MsgInvalidData)
}

// TodoText trims text and checks it is neither empty nor too long.
func TodoText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", common.Validation(MsgTodoTextEmpty)
	}
	if utf8.RuneCountInString(trimmed) > models.TodoTextMaxLength {
		return "", common.Validation(MsgTodoTextTooLong)
	}
	return trimmed, nil
}
