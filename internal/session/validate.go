package session

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// InputError is a local validation failure on the login or register screen.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// RegisterInput is the content of the register screen.
type RegisterInput struct {
	Name            string `json:"name" validate:"present"`
	Lastname        string `json:"lastname" validate:"present"`
	Email           string `json:"email" validate:"present,emailish"`
	Password        string `json:"password" validate:"present,min=6,letterdigit"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// Password strength is left to the backend on login.
type loginInput struct {
	Email    string `json:"email" validate:"present,emailish"`
	Password string `json:"password" validate:"present"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		})
		_ = v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("emailish", func(fl validator.FieldLevel) bool {
			return looksLikeEmail(strings.TrimSpace(fl.Field().String()))
		})
		_ = v.RegisterValidation("letterdigit", func(fl validator.FieldLevel) bool {
			return hasLetterAndDigit(fl.Field().String())
		})
		validate = v
	})
	return validate
}

var loginMessages = map[string]string{
	"email.present":    "El email es requerido",
	"email.emailish":   "Por favor ingresa un email válido",
	"password.present": "La contraseña es requerida",
}

var registerMessages = map[string]string{
	"name.present":            "El nombre es requerido",
	"lastname.present":        "El apellido es requerido",
	"email.present":           "El email es requerido",
	"email.emailish":          "Por favor ingresá un email válido",
	"password.present":        "La contraseña es requerida",
	"password.min":            "La contraseña debe tener al menos 6 caracteres",
	"password.letterdigit":    "La contraseña debe incluir letras y números",
	"confirmPassword.eqfield": "Las contraseñas no coinciden",
}

// ValidateLogin checks email and password presence and a loose email shape.
func ValidateLogin(email, password string) error {
	return firstFailure(loginInput{Email: email, Password: password}, loginMessages)
}

// ValidateRegister checks the register screen top to bottom and stops at the
// first failure.
func ValidateRegister(in RegisterInput) error {
	return firstFailure(in, registerMessages)
}

func firstFailure(input any, messages map[string]string) error {
	err := inputValidator().Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &InputError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fe.Error()
	}
	return &InputError{Field: fe.Field(), Message: msg}
}

func looksLikeEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".") && !strings.ContainsAny(email, " \t")
}

func hasLetterAndDigit(pw string) bool {
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
