package editor

import (
	"fmt"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
)

// Widgets looks up catalog entries by type.
type Widgets interface {
	ByType(typ string) (catalog.Widget, bool)
}

type DraggableKind string

const (
	KindWidgetTemplate  DraggableKind = "widget-template"
	KindPlacedComponent DraggableKind = "placed-component"
)

// Draggable is the subject of a drag gesture: a palette entry (Ref is a widget type)
// or a placed component (Ref is a component id).
type Draggable struct {
	Kind DraggableKind `json:"kind" validate:"required,oneof=widget-template placed-component"`
	Ref  string        `json:"ref" validate:"required"`
}

func WidgetTemplate(typ string) Draggable { return Draggable{Kind: KindWidgetTemplate, Ref: typ} }
func PlacedComponent(id string) Draggable { return Draggable{Kind: KindPlacedComponent, Ref: id} }

type TargetKind string

const (
	TargetNone      TargetKind = ""
	TargetCanvas    TargetKind = "canvas"
	TargetSlot      TargetKind = "slot"
	TargetComponent TargetKind = "component"
)

// Target is a drop position.
// A slot is a display position, a component target is the position currently held by that component.
type Target struct {
	Kind        TargetKind `json:"kind" validate:"omitempty,oneof=canvas slot component"`
	Index       int        `json:"index"`
	ComponentID string     `json:"component_id"`
}

func NoTarget() Target                  { return Target{} }
func CanvasTarget() Target              { return Target{Kind: TargetCanvas} }
func SlotTarget(i int) Target           { return Target{Kind: TargetSlot, Index: i} }
func ComponentTarget(id string) Target { return Target{Kind: TargetComponent, ComponentID: id} }

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseDragging Phase = "dragging"
)

// Gesture is the transient interaction state. It is never persisted.
type Gesture struct {
	Phase   Phase     `json:"phase"`
	Subject Draggable `json:"subject"`
	Origin  int       `json:"origin"`
	Over    Target    `json:"over"`
}

type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeMoved     Outcome = "moved"
	OutcomeCancelled Outcome = "cancelled"
)

type DropResult struct {
	Outcome     Outcome `json:"outcome"`
	ComponentID string  `json:"component_id,omitempty"`
	From        int     `json:"from"`
	To          int     `json:"to"`
	Warning     string  `json:"warning,omitempty"`
}

// Coordinator maps drag gestures onto Document operations.
// Only a drop mutates the document.
type Coordinator struct {
	doc     *Document
	widgets Widgets
	log     core.Logger
	gesture Gesture
}

func NewCoordinator(doc *Document, widgets Widgets, logger core.Logger) *Coordinator {
	if logger == nil {
		logger = core.NewDiscardLogger()
	}
	return &Coordinator{doc: doc, widgets: widgets, log: logger, gesture: idleGesture()}
}

func idleGesture() Gesture {
	return Gesture{Phase: PhaseIdle, Origin: -1}
}

func (c *Coordinator) Gesture() Gesture { return c.gesture }

func (c *Coordinator) Active() bool { return c.gesture.Phase == PhaseDragging }

// Start begins a gesture on d.
func (c *Coordinator) Start(d Draggable) error {
	if c.Active() {
		return ErrGestureActive
	}
	if d.Ref == "" {
		return ErrInvalidDraggable
	}

	origin := -1
	switch d.Kind {
	case KindWidgetTemplate:
	case KindPlacedComponent:
		if origin = c.doc.IndexOf(d.Ref); origin < 0 {
			return ErrComponentNotFound
		}
	default:
		return ErrInvalidDraggable
	}

	c.gesture = Gesture{Phase: PhaseDragging, Subject: d, Origin: origin}
	return nil
}

// Over records the candidate drop target, for feedback only.
func (c *Coordinator) Over(t Target) error {
	if !c.Active() {
		return ErrNoGesture
	}
	c.gesture.Over = t
	return nil
}

// Cancel ends the active gesture, if any, without touching the document.
func (c *Coordinator) Cancel() {
	c.gesture = idleGesture()
}

// Drop ends the active gesture over t.
// Expected failures (no target, own position, stale endpoints, unknown widget) cancel the gesture
// and are reported in the result; the coordinator is idle afterwards in every case.
func (c *Coordinator) Drop(t Target) (DropResult, error) {
	if !c.Active() {
		return DropResult{}, ErrNoGesture
	}
	g := c.gesture
	defer c.Cancel()

	var res DropResult
	if g.Subject.Kind == KindWidgetTemplate {
		res = c.insert(g.Subject.Ref, t)
	} else {
		res = c.reorder(g.Subject.Ref, t)
	}
	if res.Warning != "" {
		c.log.Warn("drop cancelled: "+res.Warning, map[string]interface{}{
			"kind": string(g.Subject.Kind), "ref": g.Subject.Ref, "target": t,
		})
	}
	return res, nil
}

func cancelled(warning string, args ...interface{}) DropResult {
	if len(args) > 0 {
		warning = fmt.Sprintf(warning, args...)
	}
	return DropResult{Outcome: OutcomeCancelled, From: -1, To: -1, Warning: warning}
}

func (c *Coordinator) insert(typ string, t Target) DropResult {
	n := c.doc.Len()
	var at int
	switch t.Kind {
	case TargetCanvas:
		at = n
	case TargetSlot:
		if t.Index < 0 || t.Index > n {
			return cancelled("slot %d is outside the canvas", t.Index)
		}
		at = t.Index
	case TargetComponent:
		if at = c.doc.IndexOf(t.ComponentID); at < 0 {
			return cancelled("target component %q no longer exists", t.ComponentID)
		}
	default:
		return cancelled("")
	}

	w, ok := c.widgets.ByType(typ)
	if !ok {
		return cancelled("unknown widget type %q", typ)
	}
	id := c.doc.Add(w.Type, w.DefaultProps, at)
	return DropResult{Outcome: OutcomeInserted, ComponentID: id, From: -1, To: at}
}

func (c *Coordinator) reorder(id string, t Target) DropResult {
	from := c.doc.IndexOf(id)
	if from < 0 {
		return cancelled("dragged component %q no longer exists", id)
	}

	n := c.doc.Len()
	var to int
	switch t.Kind {
	case TargetSlot:
		if t.Index < 0 || t.Index >= n {
			return cancelled("slot %d is outside the list", t.Index)
		}
		to = t.Index
	case TargetComponent:
		if to = c.doc.IndexOf(t.ComponentID); to < 0 {
			return cancelled("target component %q no longer exists", t.ComponentID)
		}
	default:
		// nowhere, or the canvas background
		return cancelled("")
	}

	if from == to {
		return cancelled("")
	}
	if err := c.doc.Move(from, to); err != nil {
		return cancelled(err.Error())
	}
	return DropResult{Outcome: OutcomeMoved, ComponentID: id, From: from, To: to}
}
