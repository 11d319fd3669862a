// Package schedule contains the pure scheduling primitives: converting a
// caller-supplied civil due date into a relative delay and deriving a
// deterministic, queue-safe task identifier from a message and that delay.
package schedule
