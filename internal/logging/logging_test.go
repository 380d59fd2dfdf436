package logging

import (
    "bytes"
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/wedding-marketplace/internal/config"
)

func TestNewWithWriterJSON(t *testing.T) {
    var buf bytes.Buffer
    l := NewWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)
    cl := Component(l, "reservations")
    cl.Info().Msg("dropped")
    cl.Warn().Uint64(RESERVATION, 7).Msg("kept")

    lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
    require.Len(t, lines, 1)
    var entry map[string]any
    require.NoError(t, json.Unmarshal(lines[0], &entry))
    assert.Equal(t, "reservations", entry[COMPONENT])
    assert.Equal(t, "kept", entry["message"])
    assert.EqualValues(t, 7, entry[RESERVATION])
}

func TestNewWithWriterUnknownLevelFallsBackToInfo(t *testing.T) {
    var buf bytes.Buffer
    l := NewWithWriter(config.LogConfig{Level: "chatty"}, &buf)
    l.Debug().Msg("hidden")
    l.Info().Msg("shown")
    assert.NotContains(t, buf.String(), "hidden")
    assert.Contains(t, buf.String(), "shown")
}
