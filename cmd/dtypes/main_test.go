package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arraykit/arraykit/codec"
	"github.com/arraykit/arraykit/dtype"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, dtype.NumIDs+1)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, buf.String(), "float32")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, dtype.NumIDs)

	byName := map[string]typeInfo{}
	for _, line := range lines {
		var info typeInfo
		require.NoError(t, codec.Default.Unmarshal([]byte(line), &info))
		byName[info.Name] = info
	}
	assert.Equal(t, 4, byName["float32"].Size)
	assert.Equal(t, "text", byName["ustring"].Kind)
	// bool's interchange code is 0 and must survive the round trip.
	assert.Equal(t, 0, byName["bool"].Code)
}
