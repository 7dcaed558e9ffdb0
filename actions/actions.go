package actions

import (
	"context"
	"time"
)

// Chain is a fluent sequence of user gestures. Every pointer gesture is
// mirrored by a pause on the keyboard and the other way round, so both
// sources stay on the same tick.
type Chain struct {
	b *Builder
}

// NewChain returns an empty Chain.
func NewChain() *Chain {
	return &Chain{b: NewBuilder()}
}

// Builder returns the builder the chain writes to.
func (c *Chain) Builder() *Builder { return c.b }

func (c *Chain) pointerTick() {
	c.b.Keyboard.Pause(0)
}

func (c *Chain) keyTick() {
	c.b.Mouse.Pause(0)
}

// MoveToElement moves the mouse to the given offset from the center of the
// element with reference id.
func (c *Chain) MoveToElement(id string, x, y int) *Chain {
	c.b.Mouse.Move(Element(id), x, y, DefaultMoveDuration)
	c.pointerTick()
	return c
}

// MoveTo moves the mouse to viewport coordinates (x, y).
func (c *Chain) MoveTo(x, y int) *Chain {
	c.b.Mouse.Move(Viewport, x, y, DefaultMoveDuration)
	c.pointerTick()
	return c
}

// MoveBy moves the mouse by (x, y) from where it is.
func (c *Chain) MoveBy(x, y int) *Chain {
	c.b.Mouse.Move(Pointer, x, y, DefaultMoveDuration)
	c.pointerTick()
	return c
}

// ClickAndHold presses the left button.
func (c *Chain) ClickAndHold() *Chain {
	c.b.Mouse.Down(LeftButton)
	c.pointerTick()
	return c
}

// Release releases the left button.
func (c *Chain) Release() *Chain {
	c.b.Mouse.Up(LeftButton)
	c.pointerTick()
	return c
}

// Click presses and releases the left button.
func (c *Chain) Click() *Chain {
	return c.ClickAndHold().Release()
}

// DragAndDropBy holds the left button on the element with reference id and
// drops it (x, y) away.
func (c *Chain) DragAndDropBy(id string, x, y int) *Chain {
	return c.MoveToElement(id, 0, 0).ClickAndHold().MoveBy(x, y).Release()
}

// KeyDown presses key.
func (c *Chain) KeyDown(key string) *Chain {
	c.b.Keyboard.Down(key)
	c.keyTick()
	return c
}

// KeyUp releases key.
func (c *Chain) KeyUp(key string) *Chain {
	c.b.Keyboard.Up(key)
	c.keyTick()
	return c
}

// SendKeys presses and releases every character of text in turn.
func (c *Chain) SendKeys(text string) *Chain {
	for _, r := range text {
		c.KeyDown(string(r)).KeyUp(string(r))
	}
	return c
}

// Pause idles both sources for d.
func (c *Chain) Pause(d time.Duration) *Chain {
	c.b.Mouse.Pause(d)
	c.b.Keyboard.Pause(d)
	return c
}

// Perform sends the chain to the session and releases every input state
// afterwards, so held buttons never leak into later commands. The chain is
// cleared either way.
func (c *Chain) Perform(ctx context.Context, p *Performer, sessionID string) error {
	defer c.b.Clear()
	if c.b.Empty() {
		return nil
	}
	if err := p.Perform(ctx, sessionID, c.b); err != nil {
		return err
	}
	return p.Release(ctx, sessionID)
}
