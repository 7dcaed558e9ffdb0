package actions

// Source is an input source that can be encoded into an action sequence.
type Source interface {
	ID() string
	Len() int
	Clear()
	Encode() map[string]interface{}
}

// Builder collects input sources into one action sequence.
type Builder struct {
	// Mouse and Keyboard are the default sources, present in every builder.
	Mouse    *PointerInput
	Keyboard *KeyInput

	sources []Source
}

// NewBuilder returns a Builder with a mouse and a keyboard source.
func NewBuilder() *Builder {
	mouse, _ := NewPointerInput(Mouse, "mouse")
	keyboard := NewKeyInput("keyboard")
	return &Builder{
		Mouse:    mouse,
		Keyboard: keyboard,
		sources:  []Source{mouse, keyboard},
	}
}

// AddPointer adds another pointer source, for multi-touch gestures.
func (b *Builder) AddPointer(kind PointerType, id string) (*PointerInput, error) {
	p, err := NewPointerInput(kind, id)
	if err != nil {
		return nil, err
	}
	b.sources = append(b.sources, p)
	return p, nil
}

// AddKey adds another key source.
func (b *Builder) AddKey(id string) *KeyInput {
	k := NewKeyInput(id)
	b.sources = append(b.sources, k)
	return k
}

// Empty reports whether no source has queued actions.
func (b *Builder) Empty() bool {
	for _, s := range b.sources {
		if s.Len() > 0 {
			return false
		}
	}
	return true
}

// Encode returns the body of a Perform Actions request. Sources without
// actions are left out.
func (b *Builder) Encode() map[string]interface{} {
	var seq []interface{}
	for _, s := range b.sources {
		if s.Len() == 0 {
			continue
		}
		seq = append(seq, s.Encode())
	}
	if seq == nil {
		seq = []interface{}{}
	}
	return map[string]interface{}{"actions": seq}
}

// Clear drops the queued actions of all sources.
func (b *Builder) Clear() {
	for _, s := range b.sources {
		s.Clear()
	}
}
