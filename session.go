package formwalker

import (
	"context"
	"time"

	"github.com/tebeka/selenium"
)

// Methods by which to locate elements. These are the WebDriver strategies the
// demo page needs; any other strategy string understood by the driver works
// as well.
const (
	ByID          = selenium.ByID
	ByName        = selenium.ByName
	ByLinkText    = selenium.ByLinkText
	ByCSSSelector = selenium.ByCSSSelector
	ByXPATH       = selenium.ByXPATH
)

// Keys sent to controls to commit or adjust a value.
const (
	TabKey        = selenium.TabKey
	EnterKey      = selenium.EnterKey
	ReturnKey     = selenium.ReturnKey
	LeftArrowKey  = selenium.LeftArrowKey
	RightArrowKey = selenium.RightArrowKey
)

// Session is the live connection to an automated browser. A Session is owned by
// a single run and must not be shared between goroutines.
type Session interface {
	// Get navigates the browser to url.
	Get(url string) error
	// SetImplicitWaitTimeout bounds how long element lookups retry before
	// failing.
	SetImplicitWaitTimeout(timeout time.Duration) error
	// FindElement finds exactly one element on the current page.
	FindElement(by, value string) (Element, error)
	// Back moves backward in history.
	Back() error
	// Drag presses the left mouse button on the center of elem, moves the
	// pointer by the given offset and releases it.
	Drag(ctx context.Context, elem Element, xOffset, yOffset int) error
	// WaitUntilReady blocks until the current document finished loading or the
	// timeout passes.
	WaitUntilReady(timeout, interval time.Duration) error
	// Quit ends the session and closes the browser.
	Quit() error
}

// Element is a located element of the current page.
type Element interface {
	Click() error
	SendKeys(keys string) error
	// SelectByValue selects the option of a <select> element whose value
	// attribute equals value.
	SelectByValue(value string) error
}

// Opener acquires a new session.
type Opener func(ctx context.Context) (Session, error)

// Locator names one element of a page.
type Locator struct {
	By    string `yaml:"by"`
	Value string `yaml:"value"`
}

func (l Locator) String() string {
	return l.By + "=" + l.Value
}

func find(s Session, l Locator) (Element, error) {
	return s.FindElement(l.By, l.Value)
}
