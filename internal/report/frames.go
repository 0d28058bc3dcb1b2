package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// FrameKind tells a scramble tick frame from the restore written on leave.
type FrameKind string

const (
	FrameTick    FrameKind = "tick"
	FrameRestore FrameKind = "restore"
)

// Frame is one rendering of a target's visible text.
type Frame struct {
	Target   string    `json:"target"`
	Kind     FrameKind `json:"kind"`
	Tick     int       `json:"tick"`
	Revealed float64   `json:"revealed"`
	Text     string    `json:"text"`
}

type FrameFormat int

const (
	// FrameLines writes one frame per line.
	FrameLines FrameFormat = iota
	// FrameInPlace redraws a single terminal line with carriage returns.
	FrameInPlace
	// FrameJSON writes JSON lines.
	FrameJSON
)

// FrameWriter streams frames to w in the chosen format.
type FrameWriter struct {
	w      io.Writer
	format FrameFormat
	enc    *json.Encoder
	dirty  bool
}

func NewFrameWriter(w io.Writer, format FrameFormat) *FrameWriter {
	fw := &FrameWriter{w: w, format: format}
	if format == FrameJSON {
		fw.enc = json.NewEncoder(w)
	}
	return fw
}

// Write emits f.
func (fw *FrameWriter) Write(f Frame) error {
	switch fw.format {
	case FrameJSON:
		return fw.enc.Encode(f)
	case FrameInPlace:
		fw.dirty = true
		_, err := fmt.Fprintf(fw.w, "\r\x1b[2K%s", f.Text)
		return err
	default:
		_, err := fmt.Fprintf(fw.w, "%4d  %-7s %s\n", f.Tick, f.Kind, f.Text)
		return err
	}
}

// Close terminates an in-place line.
func (fw *FrameWriter) Close() error {
	if fw.format == FrameInPlace && fw.dirty {
		fw.dirty = false
		_, err := fmt.Fprintln(fw.w)
		return err
	}
	return nil
}
