// Package actions encodes W3C WebDriver action sequences and sends them to a
// remote end.
//
// An action sequence is a list of input sources, each with its own list of
// actions. The remote end executes the sources tick by tick: the n-th action of
// every source runs in the same tick. Builders in this package keep the key
// and pointer sources aligned by padding with pauses.
package actions

import "time"

// Input source types.
const (
	KeySource     = "key"
	PointerSource = "pointer"
)

// PointerType is the kind of device a pointer source emulates.
type PointerType string

// Pointer types.
const (
	Mouse PointerType = "mouse"
	Touch PointerType = "touch"
	Pen   PointerType = "pen"
)

// MouseButton identifies a pointer button.
type MouseButton int

// Mouse buttons.
const (
	LeftButton MouseButton = iota
	MiddleButton
	RightButton
)

// Origin is what the coordinates of a pointer move are relative to.
type Origin interface {
	origin() interface{}
}

type namedOrigin string

func (o namedOrigin) origin() interface{} { return string(o) }

// Named origins.
const (
	// Viewport moves are relative to the top left corner of the viewport.
	Viewport = namedOrigin("viewport")
	// Pointer moves are relative to the current pointer position.
	Pointer = namedOrigin("pointer")
)

// ElementKey is the JSON key identifying a web element reference.
const ElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Element makes pointer moves relative to the center of the element with
// the given reference id.
type Element string

func (e Element) origin() interface{} {
	return map[string]string{ElementKey: string(e)}
}

// DefaultMoveDuration is how long a pointer move takes unless specified.
const DefaultMoveDuration = 250 * time.Millisecond

func millis(d time.Duration) int64 {
	return int64(d / time.Millisecond)
}
