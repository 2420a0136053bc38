package model

import "errors"

// ErrorKind classifies a failure reported by the library.
type ErrorKind string

const (
	KindNotFound ErrorKind = "not_found"
	KindProvider ErrorKind = "provider_error"
	KindIO       ErrorKind = "io_error"
)

// notFoundError is returned when a key does not resolve to a model.
type notFoundError struct{ key string }

func (e notFoundError) Error() string { return "model not found: " + e.key }

// ErrNotFound returns an error for a key that does not resolve to a model.
func ErrNotFound(key string) error { return notFoundError{key: key} }

// IsNotFound reports whether err indicates an unresolvable key.
func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

// providerError is an internal failure of the library (bad document, unsupported format).
type providerError struct {
	msg string
	err error
}

func (e providerError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e providerError) Unwrap() error { return e.err }

// ErrProvider constructs a providerError. err may be nil.
func ErrProvider(msg string, err error) error { return providerError{msg: msg, err: err} }

// IsProvider reports whether err is an internal library failure.
func IsProvider(err error) bool {
	var pe providerError
	return errors.As(err, &pe)
}

// ioError wraps a filesystem failure on path.
type ioError struct {
	path string
	err  error
}

func (e ioError) Error() string { return "io " + e.path + ": " + e.err.Error() }

func (e ioError) Unwrap() error { return e.err }

// ErrIO constructs an ioError for path.
func ErrIO(path string, err error) error { return ioError{path: path, err: err} }

// IsIO reports whether err is a filesystem failure.
func IsIO(err error) bool {
	var ie ioError
	return errors.As(err, &ie)
}

// KindOf classifies err. Errors not produced by this package count as provider errors.
func KindOf(err error) ErrorKind {
	switch {
	case IsNotFound(err):
		return KindNotFound
	case IsIO(err):
		return KindIO
	default:
		return KindProvider
	}
}
