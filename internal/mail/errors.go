package mail

import "errors"

var (
	// ErrDelivery indicates the verification message could not be sent.
	ErrDelivery = errors.New("verification message delivery failed")

	// ErrCodeStore indicates the code store could not be read or written.
	ErrCodeStore = errors.New("verification code store unavailable")
)
