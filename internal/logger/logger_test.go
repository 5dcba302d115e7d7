package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"assignment-tracker/internal/config"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New(config.EnvProd).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New(config.EnvDev).GetLevel())
	assert.Equal(t, zerolog.TraceLevel, New(config.EnvLocal).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("unknown").GetLevel())
}
