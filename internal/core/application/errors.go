package application

import "errors"

// Lifecycle errors double as wire messages: the strings are part of the
// response surface and must stay verbatim.
// nolint:staticcheck
var (
	ErrRecipientEmpty     = errors.New("Recipient cannot be empty")
	ErrAmountZero         = errors.New("Amount must be greater than 0")
	ErrHashlockEmpty      = errors.New("Hashlock cannot be empty")
	ErrHashlockInvalid    = errors.New("Hashlock must be a valid SHA-256 hash (64 characters)")
	ErrTimelockNotFuture  = errors.New("Timelock must be in the future")
	ErrSwapExists         = errors.New("Swap already exists")
	ErrSwapNotFound       = errors.New("Swap not found")
	ErrTimelockExpired    = errors.New("Timelock has expired")
	ErrTimelockNotExpired = errors.New("Timelock has not expired yet")
	ErrNotRecipient       = errors.New("Only recipient can withdraw")
	ErrNotSender          = errors.New("Only sender can refund")
	ErrInvalidPreimage    = errors.New("Invalid preimage")
	ErrAlreadyWithdrawn   = errors.New("Already withdrawn")
	ErrAlreadyRefunded    = errors.New("Already refunded")
	ErrTransferFailed     = errors.New("Transfer failed")
)

var lifecycleErrors = []error{
	ErrRecipientEmpty,
	ErrAmountZero,
	ErrHashlockEmpty,
	ErrHashlockInvalid,
	ErrTimelockNotFuture,
	ErrSwapExists,
	ErrSwapNotFound,
	ErrTimelockExpired,
	ErrTimelockNotExpired,
	ErrNotRecipient,
	ErrNotSender,
	ErrInvalidPreimage,
	ErrAlreadyWithdrawn,
	ErrAlreadyRefunded,
	ErrTransferFailed,
}

// IsLifecycleError reports whether err belongs to the swap lifecycle
// taxonomy, as opposed to an infrastructure failure.
func IsLifecycleError(err error) bool {
	for _, e := range lifecycleErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
