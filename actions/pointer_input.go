package actions

import (
	"fmt"
	"time"
)

// PointerInput is a pointer input source.
type PointerInput struct {
	inputDevice
	kind PointerType
}

// NewPointerInput returns a pointer source of the given kind. An empty id is
// replaced by a random one.
func NewPointerInput(kind PointerType, id string) (*PointerInput, error) {
	switch kind {
	case Mouse, Touch, Pen:
	default:
		return nil, fmt.Errorf("unknown pointer type %q", kind)
	}
	return &PointerInput{inputDevice: newInputDevice(id), kind: kind}, nil
}

// Move queues a move to (x, y) relative to origin taking d.
func (p *PointerInput) Move(origin Origin, x, y int, d time.Duration) {
	p.add(action{
		"type":     "pointerMove",
		"duration": millis(d),
		"x":        x,
		"y":        y,
		"origin":   origin.origin(),
	})
}

// Down queues a press of button.
func (p *PointerInput) Down(button MouseButton) {
	p.add(action{"type": "pointerDown", "button": int(button)})
}

// Up queues a release of button.
func (p *PointerInput) Up(button MouseButton) {
	p.add(action{"type": "pointerUp", "button": int(button)})
}

// Cancel queues a pointer cancel.
func (p *PointerInput) Cancel() {
	p.add(action{"type": "pointerCancel"})
}

// Pause queues an idle tick of d.
func (p *PointerInput) Pause(d time.Duration) {
	p.pause(d)
}

// Encode returns the source in wire form.
func (p *PointerInput) Encode() map[string]interface{} {
	return map[string]interface{}{
		"type":       PointerSource,
		"id":         p.id,
		"parameters": map[string]string{"pointerType": string(p.kind)},
		"actions":    p.actions,
	}
}
