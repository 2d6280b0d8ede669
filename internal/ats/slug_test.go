package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugVariations(t *testing.T) {
	tests := []struct {
		name    string
		company string
		want    []string
	}{
		{
			"multi word with ai suffix",
			"Scale AI",
			[]string{"scaleai", "scale-ai", "scale_ai", "scale"},
		},
		{
			"single word",
			"Stripe",
			[]string{"stripe"},
		},
		{
			"labs suffix",
			"Hugging Labs",
			[]string{"hugginglabs", "hugging-labs", "hugging_labs", "hugging"},
		},
		{
			"two plain words",
			"Acme Robotics",
			[]string{"acmerobotics", "acme-robotics", "acme_robotics", "acme"},
		},
		{
			"empty",
			"",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugVariations(tt.company))
		})
	}
}

func TestSlugVariationsDeduped(t *testing.T) {
	got := SlugVariations("stripe")
	seen := map[string]bool{}
	for _, v := range got {
		assert.False(t, seen[v], "duplicate %q", v)
		seen[v] = true
	}
}
