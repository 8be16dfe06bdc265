// Package bus carries drawing operations between canvases, in process through
// a Broker and across machines over websockets.
package bus

import (
	"encoding/json"
	"fmt"

	"github.com/example/drawpad/internal/update"
)

// Kind is the operation a Message carries.
type Kind string

const (
	KindDraw  Kind = "draw"
	KindClear Kind = "clear"
	KindUndo  Kind = "undo"
	KindRedo  Kind = "redo"
)

// Message is one operation on a shared drawing. Origin identifies the canvas
// that produced it. UUID names the stroke of undo and redo.
type Message struct {
	Kind    Kind            `json:"kind"`
	Origin  string          `json:"origin"`
	UUID    string          `json:"uuid,omitempty"`
	Updates []update.Update `json:"updates,omitempty"`
}

// Valid reports whether m has a known kind.
func (m Message) Valid() error {
	switch m.Kind {
	case KindDraw, KindClear, KindUndo, KindRedo:
		return nil
	}
	return fmt.Errorf("unknown message kind %q", m.Kind)
}

// Decode parses and validates one encoded message.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if err := m.Valid(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Encode is json.Marshal for messages.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}
