package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCSV_Windows1252(t *testing.T) {
	src := "nome;categoria;preco;custo;estoque;estoque_minimo\nPão de Açúcar;Padaria;1.234,50;900;10;2\nCafé;Bebidas;8.50\n"
	enc, err := charmap.Windows1252.NewEncoder().String(src)
	require.NoError(t, err)

	rows, err := parseCSV(decodeReader(bytes.NewReader([]byte(enc)), "windows-1252"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Pão de Açúcar", rows[0].Name)
	assert.Equal(t, "1234.5", rows[0].Price.String())
	assert.Equal(t, "900", rows[0].CostPrice.String())
	assert.Equal(t, 10, rows[0].Stock)
	assert.Equal(t, 2, rows[0].MinStock)

	assert.Equal(t, "Café", rows[1].Name)
	assert.Equal(t, "8.5", rows[1].Price.String())
	assert.Zero(t, rows[1].Stock)
}

func TestParseCSV_Errores(t *testing.T) {
	_, err := parseCSV(strings.NewReader("cab\nsolo;dos\n"))
	assert.Error(t, err)

	_, err = parseCSV(strings.NewReader("cab\nA;B;abc\n"))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	d, err := parseAmount("R$ 8,50")
	require.NoError(t, err)
	assert.Equal(t, "8.5", d.String())
}
