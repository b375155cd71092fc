package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mserrato/accounts-be/internal/apperrors"
)

func validationDetails(t *testing.T, err error) []apperrors.Detail {
	t.Helper()
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.KindValidation, appErr.Kind)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
	require.NotEmpty(t, appErr.Details)
	return appErr.Details
}

func TestValidateRegistration_Valid(t *testing.T) {
	t.Parallel()

	input, err := ValidateRegistration(strings.NewReader(`{"email":"a@b.com","password":"secret1"}`))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", input.Email)
	assert.Equal(t, "secret1", input.Password)
}

func TestValidateRegistration_DropsUnknownFields(t *testing.T) {
	t.Parallel()

	input, err := ValidateRegistration(strings.NewReader(
		`{"email":"a@b.com","password":"secret1","role":"admin","extra":42}`))
	require.NoError(t, err)
	assert.Equal(t, RegisterInput{Email: "a@b.com", Password: "secret1"}, input)
}

func TestValidateRegistration_BothFieldsInvalid(t *testing.T) {
	t.Parallel()

	_, err := ValidateRegistration(strings.NewReader(`{"email":"not-an-email","password":"123"}`))
	details := validationDetails(t, err)

	require.Len(t, details, 2, "one detail per violated field")
	assert.Equal(t, "email", details[0].Field)
	assert.Equal(t, "password", details[1].Field)
}

func TestValidateRegistration_DotlessDomain(t *testing.T) {
	t.Parallel()

	_, err := ValidateRegistration(strings.NewReader(`{"email":"user@localhost","password":"secret1"}`))
	details := validationDetails(t, err)

	require.Len(t, details, 1)
	assert.Equal(t, "email", details[0].Field)
}

func TestValidateRegistration_MissingFields(t *testing.T) {
	t.Parallel()

	_, err := ValidateRegistration(strings.NewReader(`{}`))
	details := validationDetails(t, err)
	require.Len(t, details, 2)
}

func TestValidateRegistration_PasswordLengthBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"too short", "12345", false},
		{"lower bound", "123456", true},
		{"upper bound", strings.Repeat("x", 100), true},
		{"too long", strings.Repeat("x", 101), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"email":"a@b.com","password":"` + tc.password + `"}`
			_, err := ValidateRegistration(strings.NewReader(body))
			if tc.wantOK {
				assert.NoError(t, err)
			} else {
				details := validationDetails(t, err)
				require.Len(t, details, 1)
				assert.Equal(t, "password", details[0].Field)
			}
		})
	}
}

func TestValidateRegistration_TypeMismatch(t *testing.T) {
	t.Parallel()

	_, err := ValidateRegistration(strings.NewReader(`{"email":"a@b.com","password":12345678}`))
	details := validationDetails(t, err)

	require.Len(t, details, 1)
	assert.Equal(t, "password", details[0].Field)
	assert.Equal(t, "must be a string", details[0].Message)
}

func TestValidateRegistration_StructuralFailures(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`null`, `[]`, `"hello"`, `42`, ``, `{`} {
		t.Run(body, func(t *testing.T) {
			_, err := ValidateRegistration(strings.NewReader(body))
			details := validationDetails(t, err)
			require.Len(t, details, 1)
			assert.Equal(t, "body", details[0].Field)
		})
	}
}

func TestValidateRegistration_ErrorIsClassified(t *testing.T) {
	t.Parallel()

	_, err := ValidateRegistration(strings.NewReader(`{"email":""}`))
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Status)
}
