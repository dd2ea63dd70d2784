package entity

import (
	"fmt"
	"strconv"
	"strings"
)

const timeoutMarker = " timeout="

// WithTimeoutSuffix appends the response-timeout convention understood by the backend.
// A non-positive value leaves the message untouched.
func WithTimeoutSuffix(message string, seconds int) string {
	if seconds <= 0 {
		return message
	}
	return fmt.Sprintf("%s timeout=%d", message, seconds)
}

// SplitTimeoutSuffix is the inverse of WithTimeoutSuffix. ok is false when the message
// carries no well-formed trailing suffix, in which case message is returned unchanged.
func SplitTimeoutSuffix(message string) (query string, seconds int, ok bool) {
	idx := strings.LastIndex(message, timeoutMarker)
	if idx < 0 {
		return message, 0, false
	}

	value := message[idx+len(timeoutMarker):]
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return message, 0, false
	}

	return message[:idx], n, true
}
