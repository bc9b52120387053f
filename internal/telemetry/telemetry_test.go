package telemetry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})
}

func TestWriteTextfile(t *testing.T) {
	InitMetrics()
	ScansAnalyzed.Inc()
	ThreatsTagged.WithLabelValues("evil_twin").Inc()
	ImportRows.WithLabelValues("wigle", "skipped").Add(3)

	path := filepath.Join(t.TempDir(), "wguard.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "wguard_scans_analyzed_total"))
	assert.True(t, strings.Contains(text, `wguard_threats_tagged_total{threat="evil_twin"}`))
	assert.True(t, strings.Contains(text, `wguard_import_rows_total{outcome="skipped",source="wigle"}`))
}

func TestWriteTextfile_EmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, WriteTextfile(""))
}

func TestInitTracer(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracer(&buf, "test")
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "unit")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "unit"`)
}
