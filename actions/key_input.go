package actions

import "time"

// KeyInput is a keyboard input source.
type KeyInput struct {
	inputDevice
}

// NewKeyInput returns a key source. An empty id is replaced by a random one.
func NewKeyInput(id string) *KeyInput {
	return &KeyInput{inputDevice: newInputDevice(id)}
}

// Down queues a key press. key is a single code point, either a character or
// one of the WebDriver special keys.
func (k *KeyInput) Down(key string) {
	k.add(action{"type": "keyDown", "value": key})
}

// Up queues a key release.
func (k *KeyInput) Up(key string) {
	k.add(action{"type": "keyUp", "value": key})
}

// Pause queues an idle tick of d.
func (k *KeyInput) Pause(d time.Duration) {
	k.pause(d)
}

// Encode returns the source in wire form.
func (k *KeyInput) Encode() map[string]interface{} {
	return map[string]interface{}{
		"type":    KeySource,
		"id":      k.id,
		"actions": k.actions,
	}
}
