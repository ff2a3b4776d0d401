package xarfmt

import (
	"go.chromium.org/luci/common/errors"
)

// Kind identifies which error category a given xar generation or reading
// failure belongs to, so callers can recover it with errors.As without
// string-matching an annotated message.
type Kind string

// The error kinds produced anywhere in this module.
const (
	KindInvalidInput            Kind = "invalid_input"
	KindMissingPEMSection       Kind = "missing_pem_section"
	KindInvalidPrivateKey       Kind = "invalid_private_key"
	KindSignFailed              Kind = "sign_failed"
	KindCompressionFailed       Kind = "compression_failed"
	KindIOError                 Kind = "io_error"
	KindChecksumMismatch        Kind = "checksum_mismatch"
	KindTocLengthMismatch       Kind = "toc_length_mismatch"
	KindInvalidMagic            Kind = "invalid_magic"
	KindHeaderTooSmall          Kind = "header_too_small"
	KindUnsupportedChecksumAlgo Kind = "unsupported_checksum_algo"
)

// Error wraps an underlying error with the Kind of failure it represents.
// The message is produced by Wrap (via errors.Annotate) or New (via
// errors.Reason), so Error.Error() reads like any other luci-go annotated
// error; Kind is purely for programmatic recovery via errors.As.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap annotates err (if non-nil) with reason (an fmt.Sprintf-style format
// string plus args) and tags it with kind, ready to be returned to the
// caller. Returns nil if err is nil.
func Wrap(err error, kind Kind, reason string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind: kind,
		Err:  errors.Annotate(err, reason, args...).Err(),
	}
}

// New builds a fresh *Error of the given kind with the given reason (an
// fmt.Sprintf-style format string plus args), with no wrapped cause.
func New(kind Kind, reason string, args ...interface{}) error {
	return &Error{Kind: kind, Err: errors.Reason(reason, args...).Err()}
}
