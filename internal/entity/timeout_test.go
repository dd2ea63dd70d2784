package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTimeoutSuffix(t *testing.T) {
	assert.Equal(t, "hello timeout=30", WithTimeoutSuffix("hello", 30))
	assert.Equal(t, "hello", WithTimeoutSuffix("hello", 0))
	assert.Equal(t, "hello", WithTimeoutSuffix("hello", -5))
	assert.Equal(t, "multi\nline timeout=120", WithTimeoutSuffix("multi\nline", 120))
}

func TestSplitTimeoutSuffix(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		query   string
		seconds int
		ok      bool
	}{
		{name: "suffixed", in: "hello timeout=30", query: "hello", seconds: 30, ok: true},
		{name: "plain", in: "hello", query: "hello", ok: false},
		{name: "not a number", in: "hello timeout=soon", query: "hello timeout=soon", ok: false},
		{name: "zero", in: "hello timeout=0", query: "hello timeout=0", ok: false},
		{name: "last marker wins", in: "set timeout=5 please timeout=60", query: "set timeout=5 please", seconds: 60, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, seconds, ok := SplitTimeoutSuffix(tt.in)
			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.seconds, seconds)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSplitInvertsWith(t *testing.T) {
	query, seconds, ok := SplitTimeoutSuffix(WithTimeoutSuffix("what is in report.pdf?", 45))
	assert.True(t, ok)
	assert.Equal(t, "what is in report.pdf?", query)
	assert.Equal(t, 45, seconds)
}
