// Package validation checks registration payloads before they reach the
// account service. Field rules live in ozzo-validation; a structural pass
// over the raw JSON runs first so that non-object bodies and type
// mismatches surface as validation details instead of decode panics or
// silent coercions.
package validation

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mserrato/accounts-be/internal/apperrors"
)

// RegisterInput is the validated registration payload. Unknown fields in
// the request body are dropped.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) fieldRules() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email, validation.By(domainHasDot)),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 100)),
	)
}

// domainHasDot tightens is.Email: the domain part must contain at least one
// dot. Required fires first for blank values, so this only sees non-empty
// strings.
func domainHasDot(value interface{}) error {
	s, _ := value.(string)
	at := strings.LastIndex(s, "@")
	if at < 0 || !strings.Contains(s[at+1:], ".") {
		return errors.New("must be a valid email address")
	}
	return nil
}

// ValidateRegistration decodes and validates a registration body. All
// violated rules are collected into the returned error's details in one
// pass; a body that is not a JSON object yields a single structural detail.
func ValidateRegistration(body io.Reader) (RegisterInput, error) {
	var input RegisterInput

	raw, err := decodeObject(body)
	if err != nil {
		return input, apperrors.Validation([]apperrors.Detail{
			{Field: "body", Message: "must be a JSON object"},
		})
	}

	// Type mismatches are failures, not coercions. A field with a type
	// detail is excluded from the rule pass so it reports exactly once.
	typeErrs := map[string]string{}
	if msg, ok := extractString(raw, "email", &input.Email); !ok {
		typeErrs["email"] = msg
	}
	if msg, ok := extractString(raw, "password", &input.Password); !ok {
		typeErrs["password"] = msg
	}

	ruleErrs := validation.Errors{}
	if err := input.fieldRules(); err != nil {
		if ve, ok := err.(validation.Errors); ok {
			ruleErrs = ve
		} else {
			return input, apperrors.Internal(err)
		}
	}

	var details []apperrors.Detail
	for _, field := range []string{"email", "password"} {
		if msg, ok := typeErrs[field]; ok {
			details = append(details, apperrors.Detail{Field: field, Message: msg})
			continue
		}
		if ruleErr, ok := ruleErrs[field]; ok {
			details = append(details, apperrors.Detail{Field: field, Message: ruleErr.Error()})
		}
	}
	if len(details) > 0 {
		return RegisterInput{}, apperrors.Validation(details)
	}

	return input, nil
}

// decodeObject rejects bodies that are not JSON objects (null, arrays,
// scalars, malformed JSON).
func decodeObject(body io.Reader) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return raw, nil
}

// extractString pulls a string field out of the raw object. A missing field
// leaves dst empty for the Required rule to report; a present non-string
// value returns a type-mismatch message.
func extractString(raw map[string]json.RawMessage, key string, dst *string) (string, bool) {
	val, present := raw[key]
	if !present {
		return "", true
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return "must be a string", false
	}
	return "", true
}
