package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type overridePayload struct {
	PermissionID string `json:"permissionId" validate:"required,permission_id"`
	Reason       string `json:"reason,omitempty" validate:"required,max=255"`
	Hours        int    `json:"hours" validate:"gte=0,lte=8760"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := overridePayload{PermissionID: "ticket.assign", Reason: "on-call rotation", Hours: 8}
	require.NoError(t, ValidateStruct(payload))
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(overridePayload{PermissionID: "Ticket.Assign", Hours: 9000})

	var failures ValidationErrors
	require.True(t, errors.As(err, &failures))
	require.Len(t, failures, 3)

	require.Equal(t, "permissionId", failures[0].Field)
	require.Equal(t, "permission_id", failures[0].Tag)
	require.Equal(t, "permissionId must look like resource.action", failures[0].Message)

	require.Equal(t, "reason", failures[1].Field)
	require.Equal(t, "reason is required", failures[1].Message)

	require.Equal(t, "hours", failures[2].Field)
	require.Equal(t, "8760", failures[2].Param)
	require.Equal(t, "hours must be <= 8760", failures[2].Message)

	require.Equal(t,
		"permissionId must look like resource.action; reason is required; hours must be <= 8760",
		err.Error())
}

func TestValidateStructPassesThroughNonStruct(t *testing.T) {
	err := ValidateStruct("not a struct")
	require.Error(t, err)

	var failures ValidationErrors
	require.False(t, errors.As(err, &failures))
}

func TestRegisterValidation(t *testing.T) {
	type payload struct {
		Value string `json:"value" validate:"notagent"`
	}
	require.NoError(t, RegisterValidation("notagent", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != "agent"
	}))

	require.NoError(t, ValidateStruct(payload{Value: "org-admin"}))

	err := ValidateStruct(payload{Value: "agent"})
	require.EqualError(t, err, "value failed on notagent")
}
