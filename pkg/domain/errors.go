package domain

import "errors"

// Error taxonomy shared by every write component. Repositories map store errors
// onto these before they cross the infra boundary, so services and callers only
// ever branch on sentinels.
var (
	// ErrValidation is returned for malformed or missing input. No state has
	// changed and the caller should re-prompt.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned on a uniqueness violation. The unit of
	// work has been rolled back.
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrPolicyViolation is returned when a business rule rejects the request
	// before any write, e.g. an initial balance below the minimum requirement.
	ErrPolicyViolation = errors.New("policy violation")
	// ErrInsufficientFunds is returned when a transfer would overdraw the
	// sender. The unit of work has been rolled back.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSecurity is returned when a session has expired or a secret does not
	// match. The current session must not be reused.
	ErrSecurity = errors.New("security error")
	// ErrTransientStore is returned for connection or lock-wait failures.
	// Nothing was committed, so the whole operation is safe to retry.
	ErrTransientStore = errors.New("transient store error")
)

// ErrSessionExpired is the idle-timeout case of ErrSecurity; errors.Is matches
// both sentinels.
var ErrSessionExpired = Wrap(ErrSecurity, "session expired")

type wrapped struct {
	sentinel error
	msg      string
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.sentinel }

// Wrap attaches a message to one of the sentinel errors while keeping it
// matchable with errors.Is.
func Wrap(sentinel error, msg string) error {
	return &wrapped{sentinel: sentinel, msg: msg}
}
