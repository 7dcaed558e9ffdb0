package formwalker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tebeka/selenium"

	"github.com/wanmail/formwalker/actions"
)

// DefaultExecutor is the URL of a locally running Selenium server.
const DefaultExecutor = "http://127.0.0.1:4444/wd/hub"

// RemoteOption configures sessions created by Remote.
type RemoteOption func(*remoteSession)

// ActionsClient sets the HTTP client used to send pointer actions.
func ActionsClient(c *http.Client) RemoteOption {
	return func(s *remoteSession) {
		s.performer.Client = c
	}
}

// Remote returns an Opener starting a new WebDriver session at executor with
// the given capabilities.
func Remote(caps selenium.Capabilities, executor string, opts ...RemoteOption) Opener {
	if executor == "" {
		executor = DefaultExecutor
	}
	return func(ctx context.Context) (Session, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wd, err := selenium.NewRemote(caps, executor)
		if err != nil {
			return nil, fmt.Errorf("starting session at %s: %w", executor, Classify(err))
		}
		return NewSession(wd, executor, opts...), nil
	}
}

// NewSession wraps an existing WebDriver session. executor must be the URL
// prefix the session was created with.
func NewSession(wd selenium.WebDriver, executor string, opts ...RemoteOption) Session {
	s := &remoteSession{
		wd:        wd,
		performer: actions.NewPerformer(executor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type remoteSession struct {
	wd        selenium.WebDriver
	performer *actions.Performer
}

// WebDriver returns the selenium.WebDriver behind s, if s was created by
// NewSession or Remote.
func WebDriver(s Session) (selenium.WebDriver, bool) {
	rs, ok := s.(*remoteSession)
	if !ok {
		return nil, false
	}
	return rs.wd, true
}

func (s *remoteSession) Get(url string) error {
	return s.wd.Get(url)
}

func (s *remoteSession) SetImplicitWaitTimeout(timeout time.Duration) error {
	return s.wd.SetImplicitWaitTimeout(timeout)
}

func (s *remoteSession) FindElement(by, value string) (Element, error) {
	el, err := s.wd.FindElement(by, value)
	if err != nil {
		return nil, fmt.Errorf("finding %s=%s: %w", by, value, Classify(err))
	}
	return &remoteElement{WebElement: el}, nil
}

func (s *remoteSession) Back() error {
	return s.wd.Back()
}

func (s *remoteSession) Quit() error {
	return s.wd.Quit()
}

const readyStateScript = "return document.readyState"

func (s *remoteSession) WaitUntilReady(timeout, interval time.Duration) error {
	return s.wd.WaitWithTimeoutAndInterval(func(wd selenium.WebDriver) (bool, error) {
		state, err := wd.ExecuteScript(readyStateScript, nil)
		if err != nil {
			return false, err
		}
		return state == "complete", nil
	}, timeout, interval)
}

func (s *remoteSession) Drag(ctx context.Context, elem Element, xOffset, yOffset int) error {
	re, ok := elem.(*remoteElement)
	if !ok {
		return fmt.Errorf("cannot drag element of type %T", elem)
	}
	chain := actions.NewChain()
	if id := elementID(re.WebElement); id != "" {
		chain.DragAndDropBy(id, xOffset, yOffset)
	} else {
		// No element reference to anchor the move to: aim at the center of the
		// element as laid out in the viewport.
		loc, err := re.LocationInView()
		if err != nil {
			return Classify(err)
		}
		size, err := re.Size()
		if err != nil {
			return Classify(err)
		}
		chain.MoveTo(loc.X+size.Width/2, loc.Y+size.Height/2).
			ClickAndHold().
			MoveBy(xOffset, yOffset).
			Release()
	}
	if err := chain.Perform(ctx, s.performer, s.wd.SessionID()); err != nil {
		return fmt.Errorf("dragging by (%d, %d): %w", xOffset, yOffset, Classify(err))
	}
	return nil
}

// elementID extracts the W3C reference id from el's JSON form. It returns ""
// when the client does not expose one.
func elementID(el selenium.WebElement) string {
	buf, err := json.Marshal(el)
	if err != nil {
		return ""
	}
	var ref map[string]interface{}
	if err := json.Unmarshal(buf, &ref); err != nil {
		return ""
	}
	for _, key := range []string{actions.ElementKey, "ELEMENT"} {
		if id, ok := ref[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// remoteElement adapts selenium.WebElement to Element.
type remoteElement struct {
	selenium.WebElement
}

func (e *remoteElement) Click() error {
	return Classify(e.WebElement.Click())
}

func (e *remoteElement) SendKeys(keys string) error {
	return Classify(e.WebElement.SendKeys(keys))
}

func (e *remoteElement) SelectByValue(value string) error {
	sel, err := newSelect(e.WebElement)
	if err != nil {
		return err
	}
	return Classify(sel.selectByValue(value))
}
