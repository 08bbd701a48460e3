package validation

import (
	"errors"
	"regexp"
	"strings"

	"todolist/internal/core/domain"
	"todolist/internal/core/model/response"
	"todolist/internal/core/port"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	registerCustomValidations()
	addCustomTranslations()
}

func registerCustomValidations() {
	Validator.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	Validator.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).IsValid()
	})
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("min", Translator, func(ut ut.Translator) error {
		return ut.Add("min", "{0} must be at least {1} characters", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("min", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("max", Translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} must be at most {1} characters", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("username", Translator, func(ut ut.Translator) error {
		return ut.Add("username", "{0} can only contain letters, numbers and underscores", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("username", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("category", Translator, func(ut ut.Translator) error {
		return ut.Add("category", "{0} must be one of work, study, health, home, development or finance", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("category", getFieldName(fe.Field()))
		return t
	})
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username": "Username",
		"Password": "Password",
		"Text":     "Task text",
		"Category": "Category",
		"DueDate":  "Due date",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

func getFieldKey(field string) string {
	switch field {
	case "DueDate":
		return "due_date"
	default:
		return strings.ToLower(field)
	}
}

func FormatValidationErrors(err error) []response.ValidationError {
	var fieldErrors []response.ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			fieldErrors = append(fieldErrors, response.ValidationError{
				Field:   getFieldKey(fieldError.Field()),
				Message: fieldError.Translate(Translator),
			})
		}

		return fieldErrors
	}

	var domainErr *domain.ValidationError

	if errors.As(err, &domainErr) {
		fieldErrors = append(fieldErrors, response.ValidationError{
			Field:   domainErr.Field,
			Message: domainErr.Message,
		})
	}

	return fieldErrors
}

// Validate runs the struct rules and reports the first failure as a
// *domain.ValidationError.
func Validate(s any) error {
	err := Validator.Struct(s)

	if err == nil {
		return nil
	}

	formatted := FormatValidationErrors(err)

	if len(formatted) == 0 {
		return err
	}

	return domain.NewValidationError(formatted[0].Field, formatted[0].Message)
}

type StructValidator struct{}

func New() port.Validator {
	return &StructValidator{}
}

func (v *StructValidator) ValidateStruct(s any) error {
	return Validate(s)
}

func (v *StructValidator) FormatValidationErrors(err error) []response.ValidationError {
	return FormatValidationErrors(err)
}
