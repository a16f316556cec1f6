// ABOUTME: chromedp-backed PageFetcher running a headless Chrome instance.
// ABOUTME: Each fetch gets its own browser context with a hard deadline.

package automation

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

const browseTimeout = 30 * time.Second

// ChromeFetcher fetches pages with headless Chrome via chromedp.
type ChromeFetcher struct{}

// NewChromeFetcher creates the headless fetcher.
func NewChromeFetcher() *ChromeFetcher {
	return &ChromeFetcher{}
}

// FetchText navigates to the URL and returns the rendered body text.
func (f *ChromeFetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.Flag("disable-gpu", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	runCtx, cancel := context.WithTimeout(taskCtx, browseTimeout)
	defer cancel()

	var text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return text, nil
}

var _ PageFetcher = (*ChromeFetcher)(nil)
