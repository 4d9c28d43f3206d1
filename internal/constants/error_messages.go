package constants

import "net/http"

const (
	ErrCodePayloadTooLarge         = "PAYLOAD_TOO_LARGE"
	ErrCodeUnauthorized            = "UNAUTHORIZED"
	ErrCodeUnsupportedContentType  = "UNSUPPORTED_CONTENT_TYPE"
	ErrCodeRequestExpired          = "REQUEST_EXPIRED"
	ErrCodeMissingTimestamp        = "MISSING_TIMESTAMP"
	ErrCodeInvalidTimestamp        = "INVALID_TIMESTAMP"
	ErrCodeValidationFailed        = "VALIDATION_FAILED"
	ErrCodeParseFailed             = "PARSE_FAILED"
	ErrCodeNoUsersConfigured       = "NO_USERS_CONFIGURED"
	ErrCodeSourceNotFound          = "SOURCE_NOT_FOUND"
	ErrCodeSourceAlreadyAssociated = "SOURCE_ALREADY_ASSOCIATED"
	ErrCodeAssociationNotFound     = "ASSOCIATION_NOT_FOUND"
	ErrCodeParseErrorNotFound      = "PARSE_ERROR_NOT_FOUND"
	ErrCodeRateLimited             = "RATE_LIMITED"
	ErrCodeNotFound                = "NOT_FOUND"
	ErrCodeDatabase                = "DATABASE_ERROR"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

const (
	ErrMsgPayloadTooLarge         = "request body exceeds the allowed size"
	ErrMsgUnauthorized            = "missing or invalid credentials"
	ErrMsgUnsupportedContentType  = "content type must be application/json"
	ErrMsgRequestExpired          = "request timestamp is outside the accepted window"
	ErrMsgMissingTimestamp        = "X-Webhook-Timestamp header is required"
	ErrMsgInvalidTimestamp        = "X-Webhook-Timestamp header is not a valid timestamp"
	ErrMsgValidationFailed        = "payload validation failed"
	ErrMsgParseFailed             = "message could not be parsed"
	ErrMsgNoUsersConfigured       = "no users are subscribed to this source"
	ErrMsgSourceNotFound          = "source not found"
	ErrMsgSourceAlreadyAssociated = "user is already subscribed to this source"
	ErrMsgAssociationNotFound     = "user is not subscribed to this source"
	ErrMsgParseErrorNotFound      = "parse error not found or already resolved"
	ErrMsgRateLimited             = "too many requests"
	ErrMsgNotFound                = "resource not found"
	ErrMsgDatabase                = "database error"
	ErrMsgInternalError           = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodePayloadTooLarge:         ErrMsgPayloadTooLarge,
	ErrCodeUnauthorized:            ErrMsgUnauthorized,
	ErrCodeUnsupportedContentType:  ErrMsgUnsupportedContentType,
	ErrCodeRequestExpired:          ErrMsgRequestExpired,
	ErrCodeMissingTimestamp:        ErrMsgMissingTimestamp,
	ErrCodeInvalidTimestamp:        ErrMsgInvalidTimestamp,
	ErrCodeValidationFailed:        ErrMsgValidationFailed,
	ErrCodeParseFailed:             ErrMsgParseFailed,
	ErrCodeNoUsersConfigured:       ErrMsgNoUsersConfigured,
	ErrCodeSourceNotFound:          ErrMsgSourceNotFound,
	ErrCodeSourceAlreadyAssociated: ErrMsgSourceAlreadyAssociated,
	ErrCodeAssociationNotFound:     ErrMsgAssociationNotFound,
	ErrCodeParseErrorNotFound:      ErrMsgParseErrorNotFound,
	ErrCodeRateLimited:             ErrMsgRateLimited,
	ErrCodeNotFound:                ErrMsgNotFound,
	ErrCodeDatabase:                ErrMsgDatabase,
	ErrCodeInternalError:           ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeMissingTimestamp, ErrCodeInvalidTimestamp:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeRequestExpired:
		return http.StatusUnauthorized
	case ErrCodeNoUsersConfigured, ErrCodeSourceNotFound, ErrCodeAssociationNotFound,
		ErrCodeParseErrorNotFound, ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeSourceAlreadyAssociated:
		return http.StatusConflict
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeUnsupportedContentType:
		return http.StatusUnsupportedMediaType
	case ErrCodeParseFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeDatabase, ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
