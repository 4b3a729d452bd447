package dashboard

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-dashboard/config"
	"bikeshare-dashboard/models"
	"bikeshare-dashboard/utils"
)

func TestSnapshotterCapture(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	cfg := &config.Config{SnapshotConcurrency: 1, SnapshotTimeout: 30 * time.Second}
	snap := NewSnapshotter(cfg, utils.NewLoggerTo(io.Discard, utils.LevelInfo))
	if !snap.Available() {
		t.Skip("no Chrome/Chromium binary found")
	}

	var page bytes.Buffer
	spec := BuildChart(&models.Summary{View: models.ViewWorkday, Groups: []models.Group{{Key: 0, Label: "Holiday", Mean: 10}}})
	require.NoError(t, RenderChart(&page, spec, "", ""))

	png, err := snap.Capture(context.Background(), page.Bytes())
	if err != nil {
		// echarts assets come from a CDN; offline runners cannot draw the canvas
		t.Skipf("snapshot unavailable: %v", err)
	}
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
