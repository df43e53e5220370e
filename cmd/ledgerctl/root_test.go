package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"migrate", "import", "repair", "totals", "export"}, names)
}

func TestImportCmd_RequiresFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()

	assert.ErrorContains(t, err, "accepts 1 arg")
}

func TestExportCmd_RejectsUnknownFormat(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"export", "--format", "xml"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()

	assert.ErrorContains(t, err, `invalid --format "xml"`)
}

func TestParseDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	fallback := time.Date(2025, 6, 2, 0, 0, 0, 0, berlin)

	t.Run("empty uses fallback", func(t *testing.T) {
		got, err := parseDay("", berlin, fallback)
		require.NoError(t, err)
		assert.Equal(t, fallback, got)
	})

	t.Run("parses in location", func(t *testing.T) {
		got, err := parseDay("2025-03-30", berlin, fallback)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 30, 0, 0, 0, 0, berlin), got)
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		_, err := parseDay("30/03/2025", berlin, fallback)
		assert.ErrorContains(t, err, "want YYYY-MM-DD")
	})
}
