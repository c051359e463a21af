package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scrankin/spotfire-community/internal/validation"
)

func TestIsUUIDv4(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "canonical v4", value: "598f5e27-4a62-4ecc-bb05-2a27a0f13289", want: true},
		{name: "uppercase rejected", value: "598F5E27-4A62-4ECC-BB05-2A27A0F13289", want: false},
		{name: "v1 rejected", value: "8a6e0804-2bd0-11e1-9bb3-0800200c9a66", want: false},
		{name: "nil uuid rejected", value: "00000000-0000-0000-0000-000000000000", want: false},
		{name: "braces rejected", value: "{598f5e27-4a62-4ecc-bb05-2a27a0f13289}", want: false},
		{name: "no hyphens rejected", value: "598f5e274a624eccbb052a27a0f13289", want: false},
		{name: "too short", value: "598f5e27", want: false},
		{name: "not a uuid", value: "hello", want: false},
		{name: "empty", value: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.IsUUIDv4(tt.value))
		})
	}
}
