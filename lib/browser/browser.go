// Package browser wraps chromedp in a small sequential session API.
//
// The pages this backend drives are server-rendered SPAs where clicking
// invalidates previously resolved nodes, so nothing here ever hands out
// an element handle: every query is selector-based and evaluated against
// whatever the current view is, and navigating operations block until a
// marker selector for the next view is visible.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

type Options struct {
	Headless      bool
	UserAgent     string
	WindowWidth   int
	WindowHeight  int
	ScreenshotDir string
	// bound on every non-navigating action, defaults to
	// defaultActionTimeout
	ActionTimeout time.Duration
}

// chromedp query actions block until a node matching the selector
// appears, so an action against a selector the current view doesn't
// have would otherwise wait for the life of the tab
const defaultActionTimeout = 30 * time.Second

type Session struct {
	ctx           context.Context
	cancelTab     context.CancelFunc
	cancelAlloc   context.CancelFunc
	screenshotDir string
	actionTimeout time.Duration
}

func Launch(ctx context.Context, opts Options) (*Session, error) {
	width := opts.WindowWidth
	height := opts.WindowHeight
	if width == 0 {
		width = 1920
	}
	if height == 0 {
		height = 1080
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(width, height),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// spawn the browser process now instead of on the first action so
	// launch failures surface here
	err := chromedp.Run(tabCtx)
	if err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	actionTimeout := opts.ActionTimeout
	if actionTimeout <= 0 {
		actionTimeout = defaultActionTimeout
	}

	return &Session{
		ctx:           tabCtx,
		cancelTab:     cancelTab,
		cancelAlloc:   cancelAlloc,
		screenshotDir: opts.ScreenshotDir,
		actionTimeout: actionTimeout,
	}, nil
}

// actionContext bounds a single action. Every session operation runs
// under either this or an explicit caller timeout; there is no
// unbounded wait.
func (s *Session) actionContext() (context.Context, context.CancelFunc) {
	timeout := s.actionTimeout
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	return context.WithTimeout(s.ctx, timeout)
}

func (s *Session) run(actions ...chromedp.Action) error {
	ctx, cancel := s.actionContext()
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Close tears down the tab and the browser process. It is safe to call
// on every exit path.
func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
}

func (s *Session) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// WaitVisible blocks until the selector resolves to a visible node or
// the timeout elapses.
func (s *Session) WaitVisible(sel string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitVisible(sel, chromedp.ByQuery))
}

func (s *Session) Type(sel, text string) error {
	return s.run(chromedp.SendKeys(sel, text, chromedp.ByQuery))
}

// TypeOverwrite replaces whatever text the input currently holds, the
// equivalent of triple-click-then-type.
func (s *Session) TypeOverwrite(sel, text string) error {
	return s.run(
		chromedp.Click(sel, chromedp.ByQuery),
		chromedp.SetValue(sel, "", chromedp.ByQuery),
		chromedp.SendKeys(sel, text, chromedp.ByQuery),
	)
}

func (s *Session) Click(sel string) error {
	return s.run(chromedp.Click(sel, chromedp.ByQuery))
}

// ClickNavigate clicks a control that triggers a page transition and
// blocks until the marker selector for the destination view is visible.
func (s *Session) ClickNavigate(sel, marker string, timeout time.Duration) error {
	err := s.Click(sel)
	if err != nil {
		return err
	}
	return s.WaitVisible(marker, timeout)
}

type evalString struct {
	Ok  bool   `json:"ok"`
	Val string `json:"val"`
}

// Exists reports whether the selector resolves in the current view
// without waiting for it.
func (s *Session) Exists(sel string) (bool, error) {
	var found bool
	err := s.run(chromedp.Evaluate(
		fmt.Sprintf(`document.querySelector(%q) !== null`, sel),
		&found,
	))
	if err != nil {
		return false, err
	}
	return found, nil
}

// InnerHTML returns the innerHTML of the first node matching the
// selector, the second return is false when no node resolves.
func (s *Session) InnerHTML(sel string) (string, bool, error) {
	var res evalString
	err := s.run(chromedp.Evaluate(
		fmt.Sprintf(
			`(() => { const el = document.querySelector(%q); return el ? {ok: true, val: el.innerHTML} : {ok: false, val: ""}; })()`,
			sel,
		),
		&res,
	))
	if err != nil {
		return "", false, err
	}
	return res.Val, res.Ok, nil
}

// InnerHTMLAll returns the innerHTML of every node matching the
// selector, in document order.
func (s *Session) InnerHTMLAll(sel string) ([]string, error) {
	var res []string
	err := s.run(chromedp.Evaluate(
		fmt.Sprintf(
			`Array.from(document.querySelectorAll(%q)).map(el => el.innerHTML)`,
			sel,
		),
		&res,
	))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Href returns the resolved href of the first anchor matching the
// selector, or "" when absent.
func (s *Session) Href(sel string) (string, error) {
	var res evalString
	err := s.run(chromedp.Evaluate(
		fmt.Sprintf(
			`(() => { const el = document.querySelector(%q); return el ? {ok: true, val: el.href} : {ok: false, val: ""}; })()`,
			sel,
		),
		&res,
	))
	if err != nil {
		return "", err
	}
	return res.Val, nil
}

// IsChecked reports the checked state of a checkbox, an absent node
// counts as unchecked.
func (s *Session) IsChecked(sel string) (bool, error) {
	var checked bool
	err := s.run(chromedp.Evaluate(
		fmt.Sprintf(
			`(() => { const el = document.querySelector(%q); return el ? !!el.checked : false; })()`,
			sel,
		),
		&checked,
	))
	if err != nil {
		return false, err
	}
	return checked, nil
}

// Screenshot writes a capture of the current view to
// <dir>/<name>.png. These are diagnostic artifacts only, callers treat
// failures as non-fatal.
func (s *Session) Screenshot(name string) {
	dir := s.screenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	var buf []byte
	err := s.run(chromedp.CaptureScreenshot(&buf))
	if err != nil {
		slog.Warn("failed to capture screenshot", "name", name, "err", err)
		return
	}
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		slog.Warn("failed to create screenshot dir", "dir", dir, "err", err)
		return
	}
	path := filepath.Join(dir, name+".png")
	err = os.WriteFile(path, buf, 0o644)
	if err != nil {
		slog.Warn("failed to write screenshot", "path", path, "err", err)
	}
}
