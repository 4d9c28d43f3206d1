package notifier

import "errors"

var (
	ErrServerError  = errors.New("NOTIFIER_SERVER_ERROR")  // 5xx or unreadable response
	ErrTimeout      = errors.New("NOTIFIER_TIMEOUT")       // context deadline or cancel
	ErrNetworkError = errors.New("NOTIFIER_NETWORK_ERROR") // connection failures
	ErrRejected     = errors.New("NOTIFIER_REJECTED")      // 4xx, the request will never succeed
	ErrDisabled     = errors.New("NOTIFIER_DISABLED")
)

// IsRetryable reports whether a later attempt of the same notification may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServerError) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrNetworkError)
}
