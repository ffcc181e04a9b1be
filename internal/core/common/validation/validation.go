package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	errors "github.com/frahmantamala/people-console/internal"
)

var (
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	isoPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyPattern   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{fields: make([]*FieldValidator, 0)}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if isBlank(value) {
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Email checks the address shape. Empty values are left to Required.
func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return fv.fail(fmt.Sprintf("%s must be a valid email address", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of %s", fv.FieldName, strings.Join(allowed, ", ")), errors.ErrCodeValidationFailed)
	})
	return fv
}

// ISODate accepts YYYY-MM-DD.
func (fv *FieldValidator) ISODate() *FieldValidator {
	return fv.matches(isoPattern, "YYYY-MM-DD", errors.ErrCodeInvalidDate)
}

// DisplayDate accepts DD/MM/YYYY.
func (fv *FieldValidator) DisplayDate() *FieldValidator {
	return fv.matches(dmyPattern, "DD/MM/YYYY", errors.ErrCodeInvalidDate)
}

// ClockTime accepts HH:MM in 24 hour form.
func (fv *FieldValidator) ClockTime() *FieldValidator {
	return fv.matches(clockPattern, "HH:MM", errors.ErrCodeInvalidSlot)
}

func (fv *FieldValidator) matches(re *regexp.Regexp, format string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return fv.fail(fmt.Sprintf("%s must be in %s format", fv.FieldName, format), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinInt(min int64, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var n int64
		switch v := value.(type) {
		case int:
			n = int64(v)
		case int64:
			n = v
		default:
			return nil
		}
		if n < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d", fv.FieldName, min), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && len(v) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every field and folds the failures into a single validation error.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
				continue
			}
			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// MissingFields lists the keys of required whose value in data is blank, in order.
func MissingFields(data map[string]any, required []string) []string {
	var missing []string
	for _, key := range required {
		if isBlank(data[key]) {
			missing = append(missing, key)
		}
	}
	return missing
}

func isBlank(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *string:
		return v == nil || strings.TrimSpace(*v) == ""
	case int:
		return v == 0
	case int64:
		return v == 0
	}
	return false
}
