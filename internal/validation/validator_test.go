package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/validation"
)

type TestRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Name     string `json:"name" validate:"required"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        TestRequest
		wantErrMsg string
	}{
		{
			name: "missing required field",
			req: TestRequest{
				Email:    "test@example.com",
				Password: "password123",
				Name:     "",
			},
			wantErrMsg: "name",
		},
		{
			name: "invalid email",
			req: TestRequest{
				Email:    "not-an-email",
				Password: "password123",
				Name:     "Test",
			},
			wantErrMsg: "email",
		},
		{
			name: "password too short",
			req: TestRequest{
				Email:    "test@example.com",
				Password: "short",
				Name:     "Test",
			},
			wantErrMsg: "password",
		},
		{
			name: "password too long",
			req: TestRequest{
				Email:    "test@example.com",
				Password: string(make([]byte, 1025)),
				Name:     "Test",
			},
			wantErrMsg: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, domainerrors.As(err, &domainErr)) {
				assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
				details, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok) {
					assert.Contains(t, details, tt.wantErrMsg)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Email:    "",
		Password: "password123",
		Name:     "Test",
	}

	err := v.Validate(req)
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	if assert.True(t, domainerrors.As(err, &domainErr)) {
		details, ok := domainErr.Details.(map[string]string)
		if assert.True(t, ok) {
			// Uses JSON tag name "email", not struct field name "Email".
			assert.Contains(t, details, "email")
			assert.NotContains(t, details, "Email")
		}
	}
}
