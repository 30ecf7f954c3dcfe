// Package session drives interactive annotation editing: tool selection,
// pointer gestures, text placement and linear undo/redo. Exactly one session
// may edit a photo's annotation set at a time; display surfaces hold
// read-only views and never mutate the set themselves.
package session

import (
	"github.com/photomark/photomark/pkg/geometry"
	"github.com/photomark/photomark/pkg/mark"
)

// Tool selects what a pointer gesture draws.
type Tool int

const (
	ToolNone Tool = iota
	ToolArrow
	ToolCircle
	ToolText
)

// Style is applied to marks committed by the session.
type Style struct {
	Color       string
	StrokeWidth float64
	FontSize    float64
}

// DefaultStyle matches the field conventions for defect marking.
func DefaultStyle() Style {
	return Style{Color: "#FF0000", StrokeWidth: 2, FontSize: 16}
}

type phase int

const (
	phaseIdle phase = iota
	phaseDrawing
	phasePlacingText
	phaseEnded
)

// Session owns a mutable annotation set for the duration of one edit. All
// methods are driven synchronously from user-interface events; the session
// performs no background work and is not safe for concurrent use.
type Session struct {
	set     mark.Set
	history *History
	tool    Tool
	style   Style
	phase   phase

	// Gesture state, valid while phase == phaseDrawing.
	start   geometry.Point
	current geometry.Point
	surface geometry.Surface

	// Pending text anchor, valid while phase == phasePlacingText.
	textPos geometry.Point
}

// New opens an edit session over a copy of the given set. The initial set
// becomes the first history snapshot, so a full undo returns to it.
func New(initial mark.Set) *Session {
	return &Session{
		set:     initial.Clone(),
		history: NewHistory(initial),
		style:   DefaultStyle(),
	}
}

// Set returns the live annotation set. Callers must treat it as read-only.
func (s *Session) Set() mark.Set { return s.set }

// Tool returns the selected tool.
func (s *Session) Tool() Tool { return s.tool }

// SelectTool changes the active tool. Changing tools mid-gesture abandons
// the gesture without committing.
func (s *Session) SelectTool(t Tool) {
	if s.phase == phaseEnded {
		return
	}
	s.tool = t
	if s.phase == phaseDrawing || s.phase == phasePlacingText {
		s.phase = phaseIdle
	}
}

// SetStyle changes the style applied to newly committed marks.
func (s *Session) SetStyle(st Style) {
	if s.phase == phaseEnded {
		return
	}
	s.style = st
}

// Active reports whether the session is still editable, i.e. neither saved
// nor cancelled.
func (s *Session) Active() bool { return s.phase != phaseEnded }

// CanUndo reports whether Undo would change the set.
func (s *Session) CanUndo() bool { return s.phase != phaseEnded && s.history.CanUndo() }

// CanRedo reports whether Redo would change the set.
func (s *Session) CanRedo() bool { return s.phase != phaseEnded && s.history.CanRedo() }

// PointerDown begins a gesture at the given pixel position on the given
// surface. Ignored while another gesture is in progress, when no drawing
// tool is selected, or before the surface has a size.
func (s *Session) PointerDown(px, py float64, surf geometry.Surface) {
	if s.phase != phaseIdle || surf.Empty() {
		return
	}
	p := geometry.FromPixels(px, py, surf)
	switch s.tool {
	case ToolArrow, ToolCircle:
		s.phase = phaseDrawing
		s.start = p
		s.current = p
		s.surface = surf
	case ToolText:
		s.phase = phasePlacingText
		s.textPos = p
	}
}

// PointerMove updates the gesture's current position. A no-op outside a
// drawing gesture.
func (s *Session) PointerMove(px, py float64, surf geometry.Surface) {
	if s.phase != phaseDrawing || surf.Empty() {
		return
	}
	s.current = geometry.FromPixels(px, py, surf)
	s.surface = surf
}

// PointerUp ends a drawing gesture, committing the mark it traced and
// recording a history snapshot. A pointer-up without a matching pointer-down
// is a no-op.
func (s *Session) PointerUp(px, py float64, surf geometry.Surface) {
	if s.phase != phaseDrawing {
		return
	}
	if !surf.Empty() {
		s.current = geometry.FromPixels(px, py, surf)
		s.surface = surf
	}
	s.phase = phaseIdle

	switch s.tool {
	case ToolArrow:
		s.set.Arrows = append(s.set.Arrows, mark.Arrow{
			ID:          mark.NewID("arrow"),
			Start:       s.start,
			End:         s.current,
			Color:       s.style.Color,
			StrokeWidth: s.style.StrokeWidth,
		})
	case ToolCircle:
		pr := geometry.Distance(s.start, s.current, s.surface)
		s.set.Circles = append(s.set.Circles, mark.Circle{
			ID:          mark.NewID("circle"),
			Center:      s.start,
			Radius:      geometry.RadiusFromPixels(pr, s.surface),
			Color:       s.style.Color,
			StrokeWidth: s.style.StrokeWidth,
		})
	default:
		return
	}
	s.history.Push(s.set)
}

// Preview returns the in-progress mark as a one-element set for the editing
// surface to paint over the committed marks. It reports false when no
// gesture is being drawn. Preview marks are visual-only and carry no ID.
func (s *Session) Preview() (mark.Set, bool) {
	if s.phase != phaseDrawing {
		return mark.Empty(), false
	}
	switch s.tool {
	case ToolArrow:
		return mark.Set{Arrows: []mark.Arrow{{
			Start:       s.start,
			End:         s.current,
			Color:       s.style.Color,
			StrokeWidth: s.style.StrokeWidth,
		}}}, true
	case ToolCircle:
		pr := geometry.Distance(s.start, s.current, s.surface)
		return mark.Set{Circles: []mark.Circle{{
			Center:      s.start,
			Radius:      geometry.RadiusFromPixels(pr, s.surface),
			Color:       s.style.Color,
			StrokeWidth: s.style.StrokeWidth,
		}}}, true
	}
	return mark.Empty(), false
}

// PendingText returns the anchor of the text input awaiting content and
// whether one is pending.
func (s *Session) PendingText() (geometry.Point, bool) {
	if s.phase != phasePlacingText {
		return geometry.Point{}, false
	}
	return s.textPos, true
}

// SubmitText commits the pending text mark. Empty content discards the
// placement without touching the set or the history.
func (s *Session) SubmitText(content string) {
	if s.phase != phasePlacingText {
		return
	}
	s.phase = phaseIdle
	if content == "" {
		return
	}
	s.set.Texts = append(s.set.Texts, mark.Text{
		ID:       mark.NewID("text"),
		Position: s.textPos,
		Content:  content,
		Color:    s.style.Color,
		FontSize: s.style.FontSize,
	})
	s.history.Push(s.set)
}

// CancelText discards a pending text placement.
func (s *Session) CancelText() {
	if s.phase == phasePlacingText {
		s.phase = phaseIdle
	}
}

// Apply appends externally produced marks, e.g. accepted suggestions, as a
// single undoable step. Ignored mid-gesture.
func (s *Session) Apply(add mark.Set) {
	if s.phase != phaseIdle || add.IsEmpty() {
		return
	}
	s.set.Arrows = append(s.set.Arrows, add.Arrows...)
	s.set.Circles = append(s.set.Circles, add.Circles...)
	s.set.Texts = append(s.set.Texts, add.Texts...)
	s.history.Push(s.set)
}

// Clear replaces the set with the canonical empty set and records a
// snapshot. Only committable between gestures.
func (s *Session) Clear() {
	if s.phase != phaseIdle {
		return
	}
	s.set = mark.Empty()
	s.history.Push(s.set)
}

// Undo steps the history cursor back and replaces the live set with that
// snapshot. Undo does not itself create snapshots.
func (s *Session) Undo() {
	if s.phase != phaseIdle {
		return
	}
	if snap, ok := s.history.Undo(); ok {
		s.set = snap
	}
}

// Redo steps the history cursor forward and replaces the live set with that
// snapshot.
func (s *Session) Redo() {
	if s.phase != phaseIdle {
		return
	}
	if snap, ok := s.history.Redo(); ok {
		s.set = snap
	}
}

// Save ends the session and returns the final set for persistence.
func (s *Session) Save() mark.Set {
	if s.phase == phaseEnded {
		return mark.Empty()
	}
	s.phase = phaseEnded
	return s.set.Clone()
}

// Cancel ends the session, discarding the set and its history.
func (s *Session) Cancel() {
	s.phase = phaseEnded
}
