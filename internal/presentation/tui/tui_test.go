package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/formwork/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)

	// A buffer is not a terminal, so the banner is plain text.
	assert.Contains(t, buf.String(), "|_|  \\___/|_|")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(80)
	require.NoError(t, err)

	out, err := render("# Household\n\n- **name** TextField")
	require.NoError(t, err)
	assert.Contains(t, out, "Household")
	assert.Contains(t, out, "TextField")
}
