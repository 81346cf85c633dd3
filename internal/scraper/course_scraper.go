package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

var ErrNoSummary = errors.New("page has no usable description")

// SummaryFetcher extracts a short course description from a course page.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context, pageURL string) (string, error)
}

// CollyFetcher reads meta description, og:description or the page title.
type CollyFetcher struct {
	Timeout time.Duration
	Delay   time.Duration
}

func (f CollyFetcher) FetchSummary(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var c *colly.Collector
	if host := hostFromURL(pageURL); host != "" {
		c = colly.NewCollector(colly.AllowedDomains(host))
	} else {
		c = colly.NewCollector()
	}
	if f.Timeout > 0 {
		c.SetRequestTimeout(f.Timeout)
	}
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: f.Delay})

	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	var meta, og, title string
	c.OnHTML(`meta[name="description"]`, func(e *colly.HTMLElement) {
		if meta == "" {
			meta = e.Attr("content")
		}
	})
	c.OnHTML(`meta[property="og:description"]`, func(e *colly.HTMLElement) {
		if og == "" {
			og = e.Attr("content")
		}
	})
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if title == "" {
			title = e.Text
		}
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return "", err
	}
	c.Wait()
	if reqErr != nil {
		return "", reqErr
	}

	s := cleanSummary(pickNonEmpty(meta, og, title))
	if s == "" {
		return "", ErrNoSummary
	}
	return s, nil
}

// HeadlessFetcher renders the page in headless Chrome first, for sites that
// fill their meta tags from JavaScript.
type HeadlessFetcher struct {
	Timeout time.Duration
}

const summaryScript = `(function () {
	var m = document.querySelector('meta[name="description"]');
	if (m && m.content) { return m.content; }
	var og = document.querySelector('meta[property="og:description"]');
	if (og && og.content) { return og.content; }
	return document.title || "";
})()`

func (f HeadlessFetcher) FetchSummary(ctx context.Context, pageURL string) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(defaultUserAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	reqCtx, reqCancel := context.WithTimeout(browserCtx, timeout)
	defer reqCancel()

	var raw string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(summaryScript, &raw),
	)
	if err != nil {
		return "", fmt.Errorf("headless fetch: %w", err)
	}

	s := cleanSummary(raw)
	if s == "" {
		return "", ErrNoSummary
	}
	return s, nil
}

// FallbackFetcher tries Primary and, when it fails, Secondary.
type FallbackFetcher struct {
	Primary   SummaryFetcher
	Secondary SummaryFetcher
	Logger    *zap.Logger
}

func (f FallbackFetcher) FetchSummary(ctx context.Context, pageURL string) (string, error) {
	s, err := f.Primary.FetchSummary(ctx, pageURL)
	if err == nil || f.Secondary == nil || ctx.Err() != nil {
		return s, err
	}
	if f.Logger != nil {
		f.Logger.Debug("primary fetch failed, trying fallback", zap.String("url", pageURL), zap.Error(err))
	}
	s, err2 := f.Secondary.FetchSummary(ctx, pageURL)
	if err2 != nil {
		return "", errors.Join(err, err2)
	}
	return s, nil
}

// NewSummaryFetcher returns the colly fetcher, wrapped with a headless
// fallback when headless is set.
func NewSummaryFetcher(timeout time.Duration, headless bool, logger *zap.Logger) SummaryFetcher {
	primary := CollyFetcher{Timeout: timeout, Delay: 500 * time.Millisecond}
	if !headless {
		return primary
	}
	return FallbackFetcher{Primary: primary, Secondary: HeadlessFetcher{Timeout: timeout}, Logger: logger}
}
