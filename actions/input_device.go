package actions

import (
	"time"

	"github.com/google/uuid"
)

// action is one entry of a source's action list, already in wire form.
type action map[string]interface{}

// inputDevice holds the state shared by all input sources.
type inputDevice struct {
	id      string
	actions []action
}

func newInputDevice(id string) inputDevice {
	if id == "" {
		id = uuid.NewString()
	}
	return inputDevice{id: id}
}

// ID returns the id of the input source.
func (d *inputDevice) ID() string { return d.id }

// Len returns the number of queued actions.
func (d *inputDevice) Len() int { return len(d.actions) }

func (d *inputDevice) add(a action) {
	d.actions = append(d.actions, a)
}

func (d *inputDevice) pause(dur time.Duration) {
	d.add(action{"type": "pause", "duration": millis(dur)})
}

// Clear drops all queued actions.
func (d *inputDevice) Clear() {
	d.actions = d.actions[:0]
}
