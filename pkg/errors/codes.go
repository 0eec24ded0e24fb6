package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeMessagingError     ErrorCode = "COMMON_012"
	ErrCodeNotImplemented     ErrorCode = "COMMON_013"
)

// Short aliases used throughout the codebase.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")

	CodeMoleculeNotFound = ErrCodeMoleculeNotFound
	CodeDatabaseError    = ErrCodeDatabaseError
	CodeCacheError       = ErrCodeCacheError
)

// Molecule Module Error Codes.
//
// The MOL_1xx range covers graph construction and conversion; the MOL_2xx
// range is reserved for the stereo validation conditions reported by
// StereoMol.Validate, which callers match by code.
const (
	ErrCodeMoleculeInvalidGraph     ErrorCode = "MOL_001"
	ErrCodeMoleculeNotFound         ErrorCode = "MOL_002"
	ErrCodeMoleculeAlreadyExists    ErrorCode = "MOL_003"
	ErrCodeAtomIndexOutOfRange      ErrorCode = "MOL_004"
	ErrCodeBondIndexOutOfRange      ErrorCode = "MOL_005"
	ErrCodeBondOrderInvalid         ErrorCode = "MOL_006"
	ErrCodeDuplicateBond            ErrorCode = "MOL_007"
	ErrCodeMoleculeConversionFailed ErrorCode = "MOL_008"

	ErrCodeESRCenterUnknown       ErrorCode = "MOL_201"
	ErrCodeOverUnderSpecified     ErrorCode = "MOL_202"
	ErrCodeAmbiguousConfiguration ErrorCode = "MOL_203"
)

// Canonicalizer Module Error Codes
const (
	ErrCodeMoleculeTooLarge   ErrorCode = "CANON_001"
	ErrCodeIDCodeInvalid      ErrorCode = "CANON_002"
	ErrCodeIDCodeVersion      ErrorCode = "CANON_003"
	ErrCodeCoordinatesInvalid ErrorCode = "CANON_004"
	ErrCodeTooManyESRGroups   ErrorCode = "CANON_005"
)

// Registry Module Error Codes
const (
	ErrCodeRegistryEntryNotFound ErrorCode = "REG_001"
	ErrCodeRegistryWriteFailed   ErrorCode = "REG_002"
	ErrCodeRegistryEventFailed   ErrorCode = "REG_003"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeMoleculeInvalidGraph:     http.StatusBadRequest,
	ErrCodeMoleculeNotFound:         http.StatusNotFound,
	ErrCodeMoleculeAlreadyExists:    http.StatusConflict,
	ErrCodeAtomIndexOutOfRange:      http.StatusBadRequest,
	ErrCodeBondIndexOutOfRange:      http.StatusBadRequest,
	ErrCodeBondOrderInvalid:         http.StatusBadRequest,
	ErrCodeDuplicateBond:            http.StatusBadRequest,
	ErrCodeMoleculeConversionFailed: http.StatusBadRequest,

	ErrCodeESRCenterUnknown:       http.StatusUnprocessableEntity,
	ErrCodeOverUnderSpecified:     http.StatusUnprocessableEntity,
	ErrCodeAmbiguousConfiguration: http.StatusUnprocessableEntity,

	ErrCodeMoleculeTooLarge:   http.StatusRequestEntityTooLarge,
	ErrCodeIDCodeInvalid:      http.StatusBadRequest,
	ErrCodeIDCodeVersion:      http.StatusBadRequest,
	ErrCodeCoordinatesInvalid: http.StatusBadRequest,
	ErrCodeTooManyESRGroups:   http.StatusRequestEntityTooLarge,

	ErrCodeRegistryEntryNotFound: http.StatusNotFound,
	ErrCodeRegistryWriteFailed:   http.StatusInternalServerError,
	ErrCodeRegistryEventFailed:   http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "message broker error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeMoleculeInvalidGraph:     "invalid molecule graph",
	ErrCodeMoleculeNotFound:         "molecule not found",
	ErrCodeMoleculeAlreadyExists:    "molecule already registered",
	ErrCodeAtomIndexOutOfRange:      "atom index out of range",
	ErrCodeBondIndexOutOfRange:      "bond index out of range",
	ErrCodeBondOrderInvalid:         "bond order out of range",
	ErrCodeDuplicateBond:            "bond between these atoms already exists",
	ErrCodeMoleculeConversionFailed: "molecule conversion failed",

	ErrCodeESRCenterUnknown:       "molecule contains unknown configuration within defined ESR group",
	ErrCodeOverUnderSpecified:     "molecule has over- or under-specified stereo information",
	ErrCodeAmbiguousConfiguration: "molecule contains ambiguous configuration",

	ErrCodeMoleculeTooLarge:   "molecule exceeds maximum atom count",
	ErrCodeIDCodeInvalid:      "malformed canonical identifier",
	ErrCodeIDCodeVersion:      "unsupported canonical identifier version",
	ErrCodeCoordinatesInvalid: "malformed encoded coordinates",
	ErrCodeTooManyESRGroups:   "molecule exceeds maximum ESR group count",

	ErrCodeRegistryEntryNotFound: "registry entry not found",
	ErrCodeRegistryWriteFailed:   "failed to write registry entry",
	ErrCodeRegistryEventFailed:   "failed to publish registry event",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
