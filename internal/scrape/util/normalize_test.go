package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Senior Engineer", CleanText("  Senior\n\tEngineer  "))
	assert.Equal(t, "San Francisco", CleanText("San\u00a0Francisco"))
	assert.Equal(t, "", CleanText("   \n  "))
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Location: New York, NY", "New York, NY"},
		{"Remote, Remote, US", "Remote, US"},
		{"  San Francisco , CA ", "San Francisco, CA"},
		{"", ""},
		{"Berlin", "Berlin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLocation(tt.in), tt.in)
	}
}

func TestIsRemoteLocation(t *testing.T) {
	assert.True(t, IsRemoteLocation("Remote - US"))
	assert.True(t, IsRemoteLocation("REMOTE"))
	assert.False(t, IsRemoteLocation("New York, NY"))
	assert.False(t, IsRemoteLocation(""))
}
