// Package sessiontest provides an in-memory formwalker.Session that records
// every interaction, so walks can be checked without a browser.
package sessiontest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wanmail/formwalker"
)

// keyNames renders the special keys used by the walk in traces.
var keyNames = map[string]string{
	formwalker.TabKey:        "<TAB>",
	formwalker.EnterKey:      "<ENTER>",
	formwalker.ReturnKey:     "<RETURN>",
	formwalker.LeftArrowKey:  "<LEFT>",
	formwalker.RightArrowKey: "<RIGHT>",
}

// KeyName returns the trace form of keys.
func KeyName(keys string) string {
	if name, ok := keyNames[keys]; ok {
		return name
	}
	return keys
}

// Session is a fake formwalker.Session. Elements are identified in the trace by
// the value of the locator used to find them.
type Session struct {
	// Calls is the ordered trace of interactions. Lookups are not recorded.
	Calls []string
	// Finds counts element lookups by locator value.
	Finds map[string]int
	// Quits counts Quit calls.
	Quits int
	// ImplicitWait is the last implicit wait set.
	ImplicitWait time.Duration
	// ReadyWaits counts WaitUntilReady calls.
	ReadyWaits int

	// Elements overrides the element returned for a locator value.
	Elements map[string]formwalker.Element

	failures map[string]error
}

// New returns an empty fake session.
func New() *Session {
	return &Session{
		Finds:    make(map[string]int),
		Elements: make(map[string]formwalker.Element),
		failures: make(map[string]error),
	}
}

// FailOn makes the interaction with the given trace entry return err instead
// of being recorded. Lookups are addressed as "find(<value>)".
func (s *Session) FailOn(call string, err error) {
	s.failures[call] = err
}

// Opener returns an Opener handing out s.
func (s *Session) Opener() formwalker.Opener {
	return func(context.Context) (formwalker.Session, error) {
		return s, nil
	}
}

// Trace returns the recorded calls joined by " -> ".
func (s *Session) Trace() string {
	return strings.Join(s.Calls, " -> ")
}

func (s *Session) record(call string) error {
	if err, ok := s.failures[call]; ok {
		return err
	}
	s.Calls = append(s.Calls, call)
	return nil
}

func (s *Session) Get(url string) error {
	return s.record(fmt.Sprintf("get(%s)", url))
}

func (s *Session) SetImplicitWaitTimeout(timeout time.Duration) error {
	if err, ok := s.failures["implicit_wait"]; ok {
		return err
	}
	s.ImplicitWait = timeout
	return nil
}

func (s *Session) FindElement(by, value string) (formwalker.Element, error) {
	if err, ok := s.failures[fmt.Sprintf("find(%s)", value)]; ok {
		return nil, err
	}
	s.Finds[value]++
	if el, ok := s.Elements[value]; ok {
		return el, nil
	}
	return &element{s: s, name: value}, nil
}

func (s *Session) Back() error {
	return s.record("back()")
}

func (s *Session) Drag(_ context.Context, el formwalker.Element, xOffset, yOffset int) error {
	return s.record(fmt.Sprintf("drag(%s, %d, %d)", nameOf(el), xOffset, yOffset))
}

func (s *Session) WaitUntilReady(timeout, interval time.Duration) error {
	if err, ok := s.failures["wait_ready"]; ok {
		return err
	}
	s.ReadyWaits++
	return nil
}

func (s *Session) Quit() error {
	s.Quits++
	if err, ok := s.failures["quit()"]; ok {
		return err
	}
	s.Calls = append(s.Calls, "quit()")
	return nil
}

type element struct {
	s    *Session
	name string
}

func nameOf(el formwalker.Element) string {
	if e, ok := el.(*element); ok {
		return e.name
	}
	return fmt.Sprintf("%T", el)
}

func (e *element) Click() error {
	return e.s.record(fmt.Sprintf("click(%s)", e.name))
}

func (e *element) SendKeys(keys string) error {
	return e.s.record(fmt.Sprintf("send_keys(%s, %s)", e.name, KeyName(keys)))
}

func (e *element) SelectByValue(value string) error {
	return e.s.record(fmt.Sprintf("select_by_value(%s, %s)", e.name, value))
}

// Sleeper records the durations a walk sleeps for instead of sleeping.
type Sleeper struct {
	Slept []time.Duration
}

// Sleep implements formwalker.SleepFunc.
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.Slept = append(s.Slept, d)
	return ctx.Err()
}

// Total returns the sum of recorded durations.
func (s *Sleeper) Total() time.Duration {
	var total time.Duration
	for _, d := range s.Slept {
		total += d
	}
	return total
}

// Pacer returns a FixedPacer with the default delays that records into s.
func (s *Sleeper) Pacer() *formwalker.FixedPacer {
	return &formwalker.FixedPacer{Delays: formwalker.DefaultDelays(), Sleep: s.Sleep}
}
