package credential

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSecret(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]struct {
		value    string
		contents string
		want     string
	}{
		"literal keeps surrounding spaces": {value: "  hunter2 \n", want: "  hunter2 \n"},
		"file drops final newline":         {contents: "hunter2\n", want: "hunter2"},
		"file drops final crlf":            {contents: "hunter2\r\n", want: "hunter2"},
		"file keeps other whitespace":      {contents: "  hunter2\t\n\n", want: "  hunter2\t\n"},
		"file without newline":             {contents: "-----BEGIN KEY-----", want: "-----BEGIN KEY-----"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			value := tc.value
			if value == "" {
				path := filepath.Join(dir, name)
				err := os.WriteFile(path, []byte(tc.contents), 0o600)
				if err != nil {
					t.Fatal(err)
				}
				value = "@" + path
			}

			got, err := readSecret(value)
			if err != nil {
				t.Fatal(err)
			}

			if got != tc.want {
				t.Errorf("expected secret %q; got %q", tc.want, got)
			}
		})
	}
}

func TestReadSecretMissingFile(t *testing.T) {
	_, err := readSecret("@" + filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error reading a missing file")
	}
}
