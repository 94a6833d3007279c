package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXPAND_A", "alpha")
	t.Setenv("EXPAND_B", "beta")
	t.Setenv("EXPAND_EQ", "key=value")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single variable", "key: {{.EXPAND_A}}", "key: alpha"},
		{"two variables", "dsn: {{.EXPAND_A}}:{{.EXPAND_B}}", "dsn: alpha:beta"},
		{"missing variable expands empty", "key: {{.EXPAND_NOPE}}", "key: "},
		{"value containing equals survives", "opt: {{.EXPAND_EQ}}", "opt: key=value"},
		{"dollar signs untouched", `pattern: "^secret.*$"`, `pattern: "^secret.*$"`},
		{"no templates", "key: plain", "key: plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(ExpandEnv([]byte(tt.in))))
		})
	}
}

func TestExpandEnv_MalformedTemplatePassesThrough(t *testing.T) {
	in := []byte("key: {{.UNCLOSED")
	assert.Equal(t, in, ExpandEnv(in))
}
