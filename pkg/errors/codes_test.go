package errors_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/MolCanon/pkg/errors"
)

func TestHTTPStatusForCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeValidation, http.StatusUnprocessableEntity},
		{errors.ErrCodeESRCenterUnknown, http.StatusUnprocessableEntity},
		{errors.ErrCodeOverUnderSpecified, http.StatusUnprocessableEntity},
		{errors.ErrCodeAmbiguousConfiguration, http.StatusUnprocessableEntity},
		{errors.ErrCodeMoleculeTooLarge, http.StatusRequestEntityTooLarge},
		{errors.ErrCodeIDCodeInvalid, http.StatusBadRequest},
		{errors.ErrCodeRegistryEntryNotFound, http.StatusNotFound},
		{errors.ErrorCode("NO_SUCH_CODE"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, errors.HTTPStatusForCode(tc.code), string(tc.code))
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "molecule exceeds maximum atom count",
		errors.DefaultMessageForCode(errors.ErrCodeMoleculeTooLarge))
	assert.Equal(t, "unknown error",
		errors.DefaultMessageForCode(errors.ErrorCode("NO_SUCH_CODE")))
}

func TestClientServerErrorClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsClientError(errors.ErrCodeBadRequest))
	assert.True(t, errors.IsClientError(errors.ErrCodeAmbiguousConfiguration))
	assert.False(t, errors.IsClientError(errors.ErrCodeDatabaseError))

	assert.True(t, errors.IsServerError(errors.ErrCodeInternal))
	assert.False(t, errors.IsServerError(errors.ErrCodeMoleculeTooLarge))
}

func TestModuleForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MOL", errors.ModuleForCode(errors.ErrCodeESRCenterUnknown))
	assert.Equal(t, "CANON", errors.ModuleForCode(errors.ErrCodeMoleculeTooLarge))
	assert.Equal(t, "COMMON", errors.ModuleForCode(errors.ErrCodeInternal))
	assert.Equal(t, "UNKNOWN", errors.ModuleForCode(errors.ErrorCode("")))
}

func TestEveryMappedCodeHasAMessage(t *testing.T) {
	t.Parallel()

	for code := range errors.ErrorCodeHTTPStatus {
		_, ok := errors.ErrorCodeMessage[code]
		assert.True(t, ok, "code %s has HTTP status but no default message", code)
	}
}
