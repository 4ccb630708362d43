package window

import "errors"

// ErrOrderingViolation reports input that is not sorted by chromosome and
// position: a duplicate or decreasing position within a chromosome, or a
// chromosome that reappears after a different one was started. A generator
// that returned this error must be discarded; its state is undefined.
var ErrOrderingViolation = errors.New("input not sorted by chromosome and position")

// ErrInvalidPolicy reports a policy configuration that is out of range, such
// as a non-positive window width or unsorted regions.
var ErrInvalidPolicy = errors.New("invalid window policy configuration")
