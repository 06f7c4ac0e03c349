package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_Nivel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production", Level: "DEBUG"}, &buf)
	l.Component("checkout").Debug().Msg("visible")
	assert.Contains(t, buf.String(), `"component":"checkout"`)
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	l = NewWithWriter(Config{Env: "production", Level: "no-existe"}, &buf)
	l.Debug().Msg("oculto")
	l.Info().Msg("info")
	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), "info")
}
