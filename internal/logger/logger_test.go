package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("gourmet", "debug").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("gourmet", "").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("gourmet", "verbose").GetLevel())
}
