package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

var validate = newValidator()

// newValidator reports struct violations by json field name so clients can
// match them against the payload they sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeJSONBody strictly decodes the request body into dest and runs struct
// validation. All failures come back as CodeValidation errors with per-field
// details where available.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}

	err := validate.Struct(dest)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}

	details := make(map[string]string, len(violations))
	for _, fe := range violations {
		details[fe.Field()] = violationMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gt":       "must be greater than %s",
	"oneof":    "must be one of %s",
}

func violationMessage(fe validator.FieldError) string {
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.Contains(msg, "%s") {
		return strings.Replace(msg, "%s", fe.Param(), 1)
	}
	return msg
}
