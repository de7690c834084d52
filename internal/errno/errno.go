// Package errno defines the kernel-internal error code type. Operations
// return (value, 0) on success and (zero-value, err) on failure; zero
// means success, and a non-zero Err_t is both a recognizable numeric code
// and, because it implements error, usable anywhere idiomatic Go expects
// one.
package errno

import "fmt"

// Err_t is the kernel-internal error code type.
type Err_t int

// Success is the zero value, named for call sites that read better
// stating it explicitly than returning a bare 0.
const Success Err_t = 0

// One constant per error kind, not per call site.
const (
	EINVAL       Err_t = -1 - iota // argument-invalid
	EAFNOSUPPORT                   // family-unsupported
	EOPNOTSUPP                     // type-not-supported-for-op
	EADDRINUSE                     // address-in-use
	EISCONN                        // already-connected
	ENOTCONN                       // not-connected
	EDESTADDRREQ                   // not-connected (alternate code; the socket operations report ENOTCONN)
	EAGAIN                         // would-block
	ENOTSOCK                       // not-socket
	EBADF                          // bad-descriptor
	ENOSYS                         // not-implemented
	ENOMEM                         // resource-exhausted
	ECONNREFUSED                   // backlog full at connect time
)

var names = map[Err_t]string{
	EINVAL:       "EINVAL",
	EAFNOSUPPORT: "EAFNOSUPPORT",
	EOPNOTSUPP:   "EOPNOTSUPP",
	EADDRINUSE:   "EADDRINUSE",
	EISCONN:      "EISCONN",
	ENOTCONN:     "ENOTCONN",
	EDESTADDRREQ: "EDESTADDRREQ",
	EAGAIN:       "EAGAIN",
	ENOTSOCK:     "ENOTSOCK",
	EBADF:        "EBADF",
	ENOSYS:       "ENOSYS",
	ENOMEM:       "ENOMEM",
	ECONNREFUSED: "ECONNREFUSED",
}

// Error satisfies the standard error interface so Err_t can be returned
// anywhere Go code expects one, while still being directly comparable to
// the named constants above.
func (e Err_t) Error() string {
	if e == 0 {
		return "success"
	}
	if n, ok := names[e]; ok {
		return n
	}
	return fmt.Sprintf("errno(%d)", int(e))
}

// Failed reports whether e represents a failure (non-zero).
func (e Err_t) Failed() bool {
	return e != 0
}
