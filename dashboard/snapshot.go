package dashboard

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"bikeshare-dashboard/config"
	"bikeshare-dashboard/utils"
)

// Snapshotter turns chart HTML into a PNG with headless Chrome.
type Snapshotter struct {
	chromeBin string
	timeout   time.Duration
	limiter   *utils.Limiter
	logger    *utils.Logger
}

// NewSnapshotter creates a Snapshotter limited by the configured concurrency.
func NewSnapshotter(cfg *config.Config, logger *utils.Logger) *Snapshotter {
	bin := cfg.ChromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	return &Snapshotter{
		chromeBin: bin,
		timeout:   cfg.SnapshotTimeout,
		limiter:   utils.NewLimiter(cfg.SnapshotConcurrency, cfg.SnapshotIntervalMs),
		logger:    logger,
	}
}

// Capture loads page into a fresh browser tab and screenshots it.
func (s *Snapshotter) Capture(ctx context.Context, page []byte) ([]byte, error) {
	var png []byte
	err := s.limiter.Do(ctx, func(ctx context.Context) error {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		if s.chromeBin != "" {
			opts = append(opts, chromedp.ExecPath(s.chromeBin))
		}

		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
		defer cancelAlloc()

		// Suppress chromedp log noise
		tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.timeout)
		defer cancelTimeout()

		start := time.Now()
		err := chromedp.Run(tabCtx,
			chromedp.EmulateViewport(1100, 600),
			chromedp.Navigate("data:text/html;base64,"+base64.StdEncoding.EncodeToString(page)),
			chromedp.WaitVisible("canvas", chromedp.ByQuery),
			// let the bar animation settle
			chromedp.Sleep(800*time.Millisecond),
			chromedp.CaptureScreenshot(&png),
		)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		s.logger.Debug("[snapshot] Captured %d bytes in %v", len(png), time.Since(start))
		return nil
	})
	return png, err
}

// Available reports whether a browser binary was found.
func (s *Snapshotter) Available() bool { return s.chromeBin != "" }

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
