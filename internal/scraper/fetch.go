package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	// DefaultUserAgent is sent by the headless browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"
	// DefaultFetchTimeout bounds one page render.
	DefaultFetchTimeout = 90 * time.Second

	cookieButtonXPath = `//button[contains(text(), 'Accept') or contains(text(), 'OK') or contains(text(), 'Got it')]`
)

// Fetcher returns the rendered HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// BrowserFetcher renders pages in headless Chrome. The listing site builds
// its job grid with JavaScript and loads more cards on scroll, so a plain
// HTTP GET sees no jobs.
type BrowserFetcher struct {
	Timeout   time.Duration
	UserAgent string
	Settle    time.Duration // wait after navigation and after each scroll
	Scrolls   int           // scroll-to-bottom rounds, stops early when the page stops growing
}

// NewBrowserFetcher creates a fetcher with the default settings.
func NewBrowserFetcher() *BrowserFetcher {
	return &BrowserFetcher{
		Timeout:   DefaultFetchTimeout,
		UserAgent: DefaultUserAgent,
		Settle:    2 * time.Second,
		Scrolls:   6,
	}
}

// Fetch loads url, dismisses the cookie banner if one shows up, scrolls
// until no more cards load and returns the page HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(f.UserAgent),
	)
	actx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancel := chromedp.NewContext(actx)
	defer cancel()

	var html string
	if err := chromedp.Run(cctx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
		chromedp.Navigate(url),
		chromedp.Sleep(2*f.Settle),
		chromedp.ActionFunc(f.acceptCookies),
		chromedp.ActionFunc(f.scrollToEnd),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	return html, nil
}

// acceptCookies clicks the consent button when it appears within a few
// seconds. A missing banner is not an error.
func (f *BrowserFetcher) acceptCookies(ctx context.Context) error {
	bctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := chromedp.Click(cookieButtonXPath, chromedp.BySearch).Do(bctx); err != nil {
		return nil
	}
	return chromedp.Sleep(f.Settle).Do(ctx)
}

func (f *BrowserFetcher) scrollToEnd(ctx context.Context) error {
	var last int64
	if err := chromedp.Evaluate(`document.body.scrollHeight`, &last).Do(ctx); err != nil {
		return err
	}

	for i := 0; i < f.Scrolls; i++ {
		if err := chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil).Do(ctx); err != nil {
			return err
		}
		if err := chromedp.Sleep(f.Settle).Do(ctx); err != nil {
			return err
		}

		var height int64
		if err := chromedp.Evaluate(`document.body.scrollHeight`, &height).Do(ctx); err != nil {
			return err
		}
		if height == last {
			break
		}
		last = height
	}
	return nil
}
