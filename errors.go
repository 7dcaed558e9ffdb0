package formwalker

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by a run. Client errors are mapped onto these by Classify so
// that callers can use errors.Is instead of matching driver messages.
var (
	ErrElementNotFound        = errors.New("element not found")
	ErrElementNotInteractable = errors.New("element not interactable")
	ErrSessionUnavailable     = errors.New("session unavailable")
	ErrFileNotFound           = errors.New("file not found")
)

// remoteErrors maps fragments of WebDriver error messages to the sentinel they
// represent. Both the W3C error codes and the legacy JSON wire messages are
// listed since drivers disagree on which one they put first.
var remoteErrors = []struct {
	fragment string
	err      error
}{
	{"no such element", ErrElementNotFound},
	{"unable to locate element", ErrElementNotFound},
	{"stale element reference", ErrElementNotFound},
	{"element not interactable", ErrElementNotInteractable},
	{"element not visible", ErrElementNotInteractable},
	{"invalid element state", ErrElementNotInteractable},
	{"element click intercepted", ErrElementNotInteractable},
	{"file not found", ErrFileNotFound},
	{"no such file", ErrFileNotFound},
	{"session not created", ErrSessionUnavailable},
	{"invalid session id", ErrSessionUnavailable},
	{"connection refused", ErrSessionUnavailable},
}

// classifiedError keeps the driver message while matching a sentinel.
type classifiedError struct {
	kind error
	err  error
}

func (e *classifiedError) Error() string { return e.err.Error() }

func (e *classifiedError) Is(target error) bool { return target == e.kind }

func (e *classifiedError) Unwrap() error { return e.err }

// Classify returns err annotated with the sentinel matching its message. Errors
// that already match a sentinel, or that match none, are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrElementNotFound, ErrElementNotInteractable, ErrSessionUnavailable, ErrFileNotFound} {
		if errors.Is(err, known) {
			return err
		}
	}
	msg := strings.ToLower(err.Error())
	for _, re := range remoteErrors {
		if strings.Contains(msg, re.fragment) {
			return &classifiedError{kind: re.err, err: err}
		}
	}
	return err
}

// StepError reports the step of the walk in which an interaction failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepError(step string, err error) error {
	if err == nil {
		return nil
	}
	var se *StepError
	if errors.As(err, &se) {
		return err
	}
	return &StepError{Step: step, Err: Classify(err)}
}
