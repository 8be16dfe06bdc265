package update

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type wire struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Type        Type    `json:"type"`
	StrokeColor string  `json:"strokeColor,omitempty"`
	UUID        string  `json:"uuid"`
	Visible     *bool   `json:"visible,omitempty"`
	Text        string  `json:"text,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	LineWidth   float64 `json:"lineWidth,omitempty"`
}

// MarshalJSON encodes the update using the field names peers expect.
func (u Update) MarshalJSON() ([]byte, error) {
	visible := u.visible
	return json.Marshal(wire{
		X:           u.x,
		Y:           u.y,
		Type:        u.typ,
		StrokeColor: u.strokeColor,
		UUID:        u.uuid,
		Visible:     &visible,
		Text:        u.text,
		FontFamily:  u.fontFamily,
		FontSize:    u.fontSize,
		LineWidth:   u.lineWidth,
	})
}

// UnmarshalJSON decodes an update. A missing visible flag means visible.
func (u *Update) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type < Start || w.Type > Stop {
		return fmt.Errorf("update %q: unknown type %d", w.UUID, w.Type)
	}
	*u = Update{
		x:           w.X,
		y:           w.Y,
		typ:         w.Type,
		strokeColor: w.StrokeColor,
		uuid:        w.UUID,
		visible:     w.Visible == nil || *w.Visible,
		text:        w.Text,
		fontFamily:  w.FontFamily,
		fontSize:    w.FontSize,
		lineWidth:   w.LineWidth,
	}
	return nil
}

// MarshalBatch encodes a batch as a JSON array.
func MarshalBatch(batch []Update) ([]byte, error) {
	if batch == nil {
		batch = []Update{}
	}
	return json.Marshal(batch)
}

// UnmarshalBatch decodes a JSON array of updates.
func UnmarshalBatch(data []byte) ([]Update, error) {
	var batch []Update
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return batch, nil
}

// Encoder writes one batch per line.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(batch []Update) error {
	data, err := MarshalBatch(batch)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}

// Decoder reads batches written by Encoder. Blank lines are skipped.
type Decoder struct {
	s    *bufio.Scanner
	line int
}

func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Decoder{s: s}
}

// Decode returns the next batch or io.EOF.
func (d *Decoder) Decode() ([]Update, error) {
	for d.s.Scan() {
		d.line++
		line := d.s.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		batch, err := UnmarshalBatch(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", d.line, err)
		}
		return batch, nil
	}
	if err := d.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
