package utils

import (
	stderrors "errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/internal/shared/errors"
)

type permissionInput struct {
	Resource string `json:"resource" validate:"required,perm_part"`
	Action   string `json:"action" validate:"required,perm_part"`
}

func TestValidateStruct_PermissionParts(t *testing.T) {
	tests := []struct {
		name     string
		input    permissionInput
		wantErr  bool
		contains string
	}{
		{"valid", permissionInput{Resource: "campaign", Action: "read_all"}, false, ""},
		{"uppercase resource", permissionInput{Resource: "Campaign", Action: "read"}, true, "resource must start with a lowercase letter"},
		{"leading digit", permissionInput{Resource: "campaign", Action: "1read"}, true, "action must start with a lowercase letter"},
		{"colon inside part", permissionInput{Resource: "campaign:x", Action: "read"}, true, "resource"},
		{"missing action", permissionInput{Resource: "campaign"}, true, "action is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			assert.Contains(t, appErr.Details, tt.contains)
		})
	}
}

func TestRegisterValidations_ReportsFailure(t *testing.T) {
	err := registerValidations(validator.New(), map[string]validator.Func{
		"": func(validator.FieldLevel) bool { return true },
	})
	assert.Error(t, err)

	assert.NoError(t, configureValidator(validator.New()))
}

func TestRegisterBindingValidators_EnablesPermPartTag(t *testing.T) {
	RegisterBindingValidators()
	// Repeated calls are no-ops.
	RegisterBindingValidators()

	type query struct {
		Resource string `form:"resource" binding:"required,perm_part"`
	}
	assert.NoError(t, binding.Validator.ValidateStruct(&query{Resource: "campaign"}))
	assert.Error(t, binding.Validator.ValidateStruct(&query{Resource: "Campaign"}))
}

func TestBindingError_NonValidationFailure(t *testing.T) {
	err := BindingError(stderrors.New("unexpected EOF"))

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
	assert.Equal(t, "unexpected EOF", appErr.Details)
}

func TestBindingError_Nil(t *testing.T) {
	assert.NoError(t, BindingError(nil))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@acme.io", MaskEmail("alice@acme.io"))
	assert.Equal(t, "a***@acme.io", MaskEmail("a@acme.io"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
}
