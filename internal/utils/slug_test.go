package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"The Forest Hiker", "the-forest-hiker"},
		{"  Trimmed  Name  ", "trimmed-name"},
		{"Fjords & Glaciers!", "fjords-glaciers"},
		{"UPPER", "upper"},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.name), tc.name)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}
