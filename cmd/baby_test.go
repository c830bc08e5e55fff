package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/babytime/internal/model"
)

func TestPrintBabies(t *testing.T) {
	now := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	babies := []model.Baby{
		{ID: "0f8e2c1a-aaaa-bbbb-cccc-000000000001", Name: "Ada", BirthDate: now.AddDate(0, 0, -100)},
		{ID: "b2", Name: "Ben", BirthDate: now.AddDate(0, 0, -12)},
	}

	var buf bytes.Buffer
	printBabies(&buf, babies, "b2", now)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  Ada"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "0f8e2c1a"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "* Ben"), lines[1])
	assert.Contains(t, lines[1], "12 days old")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0f8e2c1a", shortID("0f8e2c1a-aaaa-bbbb-cccc-000000000001"))
	assert.Equal(t, "b2", shortID("b2"))
}
