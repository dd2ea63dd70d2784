package session

import "fmt"

const (
	DefaultResponseTimeout = 30
	MaxResponseTimeout     = 120
	ResponseTimeoutStep    = 5
)

// ClampTimeout applies the slider bounds: 0..120 seconds in steps of 5
func ClampTimeout(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	if seconds >= MaxResponseTimeout {
		return MaxResponseTimeout
	}
	return (seconds + ResponseTimeoutStep/2) / ResponseTimeoutStep * ResponseTimeoutStep
}

// TimeoutLabel is the short slider label
func TimeoutLabel(seconds int) string {
	if seconds == 0 {
		return "No limit"
	}
	return fmt.Sprintf("%ds", seconds)
}

// TimeoutDescription explains what the chosen timeout does
func TimeoutDescription(seconds int) string {
	if seconds == 0 {
		return "No timeout limit - responses may take longer for complex queries."
	}
	return fmt.Sprintf("If response takes longer than %d seconds, processing will stop.", seconds)
}
