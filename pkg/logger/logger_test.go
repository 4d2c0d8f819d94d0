package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_CamposFijos(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "debug", Output: &buf})

	log.Component("settlement").Tenant("A").Info().Str("provider_id", "P").Msg("liquidación")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "settlement", line["component"])
	assert.Equal(t, "A", line["company_id"])
	assert.Equal(t, "P", line["provider_id"])
	assert.Equal(t, "info", line["level"])
}

func TestLogger_Nivel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.NotZero(t, buf.Len())
}

func TestLogger_NilSeguro(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Component("x").Tenant("A").Info().Msg("nada")
	})
}
