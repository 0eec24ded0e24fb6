// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/MolCanon/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"not found", errors.CodeMoleculeNotFound, "molecule not registered"},
		{"invalid param", errors.CodeInvalidParam, "atom index must be >= 0"},
		{"too large", errors.ErrCodeMoleculeTooLarge, "molecule exceeds 32767 atoms"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestNew_StackIsPopulated(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInternal, "test")
	require.NotNil(t, ae)
	// Stack may be empty when compiled with -tags nostack; we only assert the
	// field is accessible without a panic.
	_ = ae.Stack
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.CodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("root DB error")
	wrapped := errors.Wrap(root, errors.CodeDatabaseError, "connection failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeDatabaseError, wrapped.Code)
	assert.Equal(t, "connection failed", wrapped.Message)
	assert.Equal(t, root, wrapped.Cause)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeMoleculeNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodeMoleculeNotFound, outer.Code,
		"Wrap with CodeUnknown should inherit the inner AppError's code")
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeMoleculeNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code,
		"explicit non-Unknown code must override the inner code")
}

// ─────────────────────────────────────────────────────────────────────────────
// Error() formatting
// ─────────────────────────────────────────────────────────────────────────────

func TestError_FormatWithAndWithoutDetail(t *testing.T) {
	t.Parallel()

	plain := errors.New(errors.ErrCodeMoleculeTooLarge, "too many atoms")
	assert.Equal(t, "[CANON_001] too many atoms", plain.Error())

	detailed := plain.WithDetail("atoms=40000 max=32767")
	assert.Equal(t, "[CANON_001] too many atoms: atoms=40000 max=32767", detailed.Error())
	assert.Empty(t, plain.Detail, "WithDetail must not mutate the receiver")
}

func TestWithDetailf(t *testing.T) {
	t.Parallel()

	ae := errors.Condition(errors.ErrCodeESRCenterUnknown).WithDetailf("atom=%d", 7)
	assert.Equal(t, "atom=7", ae.Detail)
	assert.True(t, strings.Contains(ae.Error(), "MOL_201"))
}

func TestWithDetailAndCause_NilReceiverSafe(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("y")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_FindsCodeDeepInChain(t *testing.T) {
	t.Parallel()

	inner := errors.Condition(errors.ErrCodeOverUnderSpecified)
	mid := fmt.Errorf("service: %w", inner)
	outer := errors.Wrap(mid, errors.CodeInternal, "canonicalize failed")

	assert.True(t, errors.IsCode(outer, errors.ErrCodeOverUnderSpecified))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeAmbiguousConfiguration))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(errors.NotFound("missing")))
	assert.True(t, errors.IsNotFound(errors.New(errors.ErrCodeRegistryEntryNotFound, "no entry")))
	assert.True(t, errors.IsNotFound(fmt.Errorf("wrapped: %w", errors.New(errors.CodeMoleculeNotFound, "gone"))))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
	assert.False(t, errors.IsNotFound(stderrors.New("plain")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestIsValidation_CoversAllConditionCodes(t *testing.T) {
	t.Parallel()

	for _, code := range []errors.ErrorCode{
		errors.ErrCodeValidation,
		errors.ErrCodeESRCenterUnknown,
		errors.ErrCodeOverUnderSpecified,
		errors.ErrCodeAmbiguousConfiguration,
	} {
		assert.True(t, errors.IsValidation(errors.Condition(code)), string(code))
	}
	assert.False(t, errors.IsValidation(errors.Internal("boom")))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeCacheError,
		errors.GetCode(fmt.Errorf("x: %w", errors.New(errors.ErrCodeCacheError, "miss"))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Condition factory
// ─────────────────────────────────────────────────────────────────────────────

func TestCondition_UsesDefaultMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Condition(errors.ErrCodeAmbiguousConfiguration)
	require.NotNil(t, ae)
	assert.Equal(t, errors.ErrCodeAmbiguousConfiguration, ae.Code)
	assert.Equal(t, errors.DefaultMessageForCode(errors.ErrCodeAmbiguousConfiguration), ae.Message)
}
