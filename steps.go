package formwalker

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
)

// Each helper below performs one interaction of the walk on s and settles
// afterwards. None of them verify the resulting page state.

// ClickLink activates the link named by l.
func ClickLink(ctx context.Context, s Session, p Pacer, l Locator) error {
	el, err := find(s, l)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return err
	}
	return p.Settle(ctx, s)
}

// FillText appends text to the input named by l.
func FillText(ctx context.Context, s Session, p Pacer, l Locator, text string) error {
	el, err := find(s, l)
	if err != nil {
		return err
	}
	if err := el.SendKeys(text); err != nil {
		return err
	}
	return p.Settle(ctx, s)
}

// SelectNumber selects n by option value in the dropdown named by l, then
// types typed into the same control.
func SelectNumber(ctx context.Context, s Session, p Pacer, l Locator, n int, typed string) error {
	el, err := find(s, l)
	if err != nil {
		return err
	}
	if err := el.SelectByValue(strconv.Itoa(n)); err != nil {
		return err
	}
	if err := p.SettleShort(ctx, s); err != nil {
		return err
	}
	// Looked up again: the selection may have re-rendered the control.
	el, err = find(s, l)
	if err != nil {
		return err
	}
	if err := el.SendKeys(typed); err != nil {
		return err
	}
	return p.Settle(ctx, s)
}

// FillDatalist types city into the datalist input named by l and tabs away to
// commit it.
func FillDatalist(ctx context.Context, s Session, p Pacer, l Locator, city string) error {
	el, err := find(s, l)
	if err != nil {
		return err
	}
	if err := el.SendKeys(city); err != nil {
		return err
	}
	if err := el.SendKeys(TabKey); err != nil {
		return err
	}
	return p.Settle(ctx, s)
}

// UploadFile hands the absolute path of name to the file input named by l.
// Whether the file exists is left to the driver.
func UploadFile(ctx context.Context, s Session, p Pacer, l Locator, name string) error {
	path, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	el, err := find(s, l)
	if err != nil {
		return err
	}
	if err := el.SendKeys(path); err != nil {
		return err
	}
	return p.Settle(ctx, s)
}

// ToggleChoices clicks the checkbox and then the radio button.
func ToggleChoices(ctx context.Context, s Session, p Pacer, checkbox, radio Locator) error {
	for _, l := range []Locator{checkbox, radio} {
		el, err := find(s, l)
		if err != nil {
			return err
		}
		if err := el.Click(); err != nil {
			return err
		}
		if err := p.Settle(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// PickColor types a hex color into the color input named by l.
func PickColor(ctx context.Context, s Session, p Pacer, l Locator, color string) error {
	return FillText(ctx, s, p, l, color)
}

// PickDate opens the date picker named by l, types date (month/day/year),
// confirms it and tabs away.
func PickDate(ctx context.Context, s Session, p Pacer, l Locator, date string) error {
	el, err := find(s, l)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return err
	}
	for _, keys := range []string{date, EnterKey, TabKey} {
		if err := el.SendKeys(keys); err != nil {
			return err
		}
	}
	return p.Settle(ctx, s)
}

// Direction is the way a slider is nudged with the arrow keys.
type Direction int

// Slider directions.
const (
	NoDirection Direction = iota
	Left
	Right
)

// ParseDirection accepts "L" or "R" in either case. Anything else yields
// NoDirection.
func ParseDirection(s string) Direction {
	switch strings.ToUpper(s) {
	case "L":
		return Left
	case "R":
		return Right
	}
	return NoDirection
}

// Key returns the arrow key for d, or "" for NoDirection.
func (d Direction) Key() string {
	switch d {
	case Left:
		return LeftArrowKey
	case Right:
		return RightArrowKey
	}
	return ""
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// MoveSlider drags the slider named by l by off, then presses the arrow key for
// direction steps times. An unknown direction skips the key presses.
func MoveSlider(ctx context.Context, s Session, p Pacer, l Locator, off Offset, direction string, steps int) error {
	el, err := find(s, l)
	if err != nil {
		return err
	}
	if err := s.Drag(ctx, el, off.X, off.Y); err != nil {
		return err
	}
	if err := p.Settle(ctx, s); err != nil {
		return err
	}
	key := ParseDirection(direction).Key()
	if key == "" {
		return nil
	}
	for i := 0; i < steps; i++ {
		if err := el.SendKeys(key); err != nil {
			return err
		}
		if err := p.SettleShort(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Submit clicks the submit control named by l.
func Submit(ctx context.Context, s Session, p Pacer, l Locator) error {
	return ClickLink(ctx, s, p, l)
}

// GoBack navigates one step back in history.
func GoBack(ctx context.Context, s Session, p Pacer) error {
	if err := s.Back(); err != nil {
		return err
	}
	return p.Settle(ctx, s)
}
