package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions
const (
	ActionConfirm = "confirm"
	ActionDelete  = "del"
	ActionExport  = "export"
	ActionTimeout = "timeout"
)

// Confirm answers
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string // "confirm", "del", "export", "timeout"
	Value  string // The parameter
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}

// ParseConfirmValue splits the value of a confirm callback into token and answer
func ParseConfirmValue(value string) (token string, yes bool, err error) {
	token, answer, ok := strings.Cut(value, ":")
	if !ok || token == "" {
		return "", false, fmt.Errorf("invalid confirm value: %s", value)
	}

	switch answer {
	case AnswerYes:
		return token, true, nil
	case AnswerNo:
		return token, false, nil
	default:
		return "", false, fmt.Errorf("invalid confirm answer: %s", answer)
	}
}
