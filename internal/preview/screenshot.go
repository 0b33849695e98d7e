// Package preview renders generated sites in a headless browser.
package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// EnvChromePath overrides the browser binary
const EnvChromePath = "CHROME_PATH"

// Options controls a screenshot
type Options struct {
	Timeout time.Duration
	Width   int64
	Height  int64
	// Settle is how long scripts get to run after the page is ready
	Settle   time.Duration
	ExecPath string
	Verbose  bool
}

// DefaultOptions returns a desktop-sized viewport with a 30s timeout
func DefaultOptions() Options {
	return Options{
		Timeout:  30 * time.Second,
		Width:    1280,
		Height:   800,
		Settle:   500 * time.Millisecond,
		ExecPath: os.Getenv(EnvChromePath),
	}
}

// DataURL encodes an HTML document so the browser can load it without a server
func DataURL(html string) string {
	return "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(html))
}

// Screenshot renders html in headless Chrome and returns a full-page PNG.
// Requires Chrome/Chromium to be installed on the system.
func Screenshot(ctx context.Context, html string, opts Options) ([]byte, error) {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = defaults.Width, defaults.Height
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(int(opts.Width), int(opts.Height)),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	if opts.Verbose {
		log.Printf("[BROWSER] Rendering preview: %d bytes", len(html))
	}

	var png []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(opts.Width, opts.Height),
		chromedp.Navigate(DataURL(html)),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
		// quality 100 selects PNG
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("preview rendering failed: %w", err)
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Screenshot: %d bytes", len(png))
	}
	return png, nil
}
