package models

import "testing"

func TestImageTag(t *testing.T) {
	tests := map[string]struct {
		name   string
		number int64
		want   string
	}{
		"simple":         {name: "acme/app", number: 42, want: "acme/app:42"},
		"registry host":  {name: "registry.example.com:5000/team/app", number: 7, want: "registry.example.com:5000/team/app:7"},
		"uppercase kept": {name: "Acme/App", number: 1, want: "Acme/App:1"},
		"large number":   {name: "app", number: 9007199254740993, want: "app:9007199254740993"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := ImageTag(tc.name, tc.number)
			if got != tc.want {
				t.Errorf("ImageTag(%q, %d) = %q; want %q", tc.name, tc.number, got, tc.want)
			}
		})
	}
}
