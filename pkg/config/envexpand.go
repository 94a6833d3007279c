package config

import (
	"bytes"
	"os"
	"strings"
	"text/template"
)

// ExpandEnv renders {{.VAR_NAME}} references in raw config bytes from the
// process environment. Template syntax is used instead of shell-style $VAR
// expansion so literal dollar signs in API keys and URLs pass through
// untouched. Missing variables render as empty strings and are left for
// validation to reject; input that fails to parse or execute as a
// template is returned unchanged.
func ExpandEnv(data []byte) []byte {
	tmpl, err := template.New("driveline").Option("missingkey=zero").Parse(string(data))
	if err != nil {
		return data
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, environMap()); err != nil {
		return data
	}
	return buf.Bytes()
}

// environMap snapshots the process environment as template context.
// Values may themselves contain '=', so only the first one splits.
func environMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			env[key] = value
		}
	}
	return env
}
