package crawl

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

const crawlerUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Engine owns the shared Chromium process. Crawls never share a browser
// context: each one gets an isolated context (fresh cookies/storage) from
// newSession and must close it before returning.
type Engine struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewEngine launches headless Chromium. This is the only hard failure in the
// crawl path; without a browser no company can be processed.
func NewEngine(headless bool) (*Engine, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		SlowMo:   playwright.Float(100),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--no-sandbox",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Engine{pw: pw, browser: browser}, nil
}

func (e *Engine) Close() error {
	var firstErr error
	if e.browser != nil {
		if err := e.browser.Close(); err != nil {
			firstErr = err
		}
	}
	if e.pw != nil {
		if err := e.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// session is one isolated browsing context scoped to a single company crawl.
type session struct {
	ctx  playwright.BrowserContext
	page playwright.Page
}

func (e *Engine) newSession() (*session, error) {
	ctx, err := e.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(crawlerUA),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
		Locale:    playwright.String("en-US"),
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &session{ctx: ctx, page: page}, nil
}

func (s *session) close() {
	_ = s.page.Close()
	_ = s.ctx.Close()
}
