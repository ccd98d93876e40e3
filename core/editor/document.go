// Package editor implements the page-editing model: the ordered component document,
// the drag-and-drop coordinator and the editing session that drives both.
package editor

import (
	"sort"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
)

// Defaults supplies the default props of a widget type.
type Defaults interface {
	DefaultProps(typ string) (catalog.Props, bool)
}

// Document is the ordered component collection of one page.
// It is not safe for concurrent use; Session serializes access to it.
type Document struct {
	comps    []Component // display order
	selected string
	dirty    bool
	revision uint64
	defaults Defaults
	log      core.Logger
}

func NewDocument(defaults Defaults, logger core.Logger) *Document {
	if logger == nil {
		logger = core.NewDiscardLogger()
	}
	return &Document{defaults: defaults, log: logger}
}

func (d *Document) Len() int { return len(d.comps) }

// Components returns copies of the components in display order.
func (d *Document) Components() []Component {
	return CloneComponents(d.comps)
}

// Get returns a copy of the component with the given id.
func (d *Document) Get(id string) (Component, bool) {
	idx := d.IndexOf(id)
	if idx < 0 {
		return Component{}, false
	}
	return d.comps[idx].Clone(), true
}

// IndexOf returns the display position of the component id, or -1.
func (d *Document) IndexOf(id string) int {
	for i, c := range d.comps {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Selected returns the selected component id ("" when nothing is selected).
func (d *Document) Selected() string { return d.selected }

// Dirty reports whether the document has unsaved changes.
func (d *Document) Dirty() bool { return d.dirty }

// Revision is incremented by every mutation.
func (d *Document) Revision() uint64 { return d.revision }

// Select sets the selection. The id must address an existing component.
func (d *Document) Select(id string) error {
	if d.IndexOf(id) < 0 {
		return ErrComponentNotFound
	}
	d.selected = id
	return nil
}

func (d *Document) Deselect() { d.selected = "" }

// MarkSaved clears the dirty flag if no mutation happened since revision rev.
func (d *Document) MarkSaved(rev uint64) bool {
	if d.revision != rev {
		return false
	}
	d.dirty = false
	return true
}

func (d *Document) touch() {
	d.dirty = true
	d.revision++
	d.renumber()
}

func (d *Document) renumber() {
	for i := range d.comps {
		d.comps[i].Order = i
	}
}

// Add places a new component of type typ and returns its id.
// props are written over the catalog defaults of typ (explicit props win); unknown types are kept as is.
// The component is inserted at display position at[0] (clamped to [0, Len()]) or appended, and selected.
func (d *Document) Add(typ string, props catalog.Props, at ...int) string {
	var defaults catalog.Props
	if d.defaults != nil {
		if dp, ok := d.defaults.DefaultProps(typ); ok {
			defaults = dp
		}
	}

	idx := len(d.comps)
	if len(at) > 0 {
		idx = at[0]
		if idx < 0 {
			idx = 0
		}
		if idx > len(d.comps) {
			idx = len(d.comps)
		}
	}

	comp := Component{ID: d.freshID(), Type: typ, Props: defaults.Merge(props), Order: idx}
	d.comps = append(d.comps, Component{})
	copy(d.comps[idx+1:], d.comps[idx:])
	d.comps[idx] = comp

	d.selected = comp.ID
	d.touch()
	return comp.ID
}

func (d *Document) freshID() string {
	for {
		id := IDFunc()
		if d.IndexOf(id) < 0 {
			return id
		}
	}
}

// Update shallow-merges partial into the props of component id.
func (d *Document) Update(id string, partial catalog.Props) error {
	idx := d.IndexOf(id)
	if idx < 0 {
		return ErrComponentNotFound
	}
	d.comps[idx].Props = d.comps[idx].Props.Merge(partial)
	d.touch()
	return nil
}

// Remove deletes component id, clearing the selection if it pointed at it.
func (d *Document) Remove(id string) error {
	idx := d.IndexOf(id)
	if idx < 0 {
		return ErrComponentNotFound
	}
	d.comps = append(d.comps[:idx], d.comps[idx+1:]...)
	if d.selected == id {
		d.selected = ""
	}
	d.touch()
	return nil
}

// Duplicate inserts a deep copy of component id right after it and returns the copy's id.
func (d *Document) Duplicate(id string) (string, error) {
	idx := d.IndexOf(id)
	if idx < 0 {
		return "", ErrComponentNotFound
	}
	src := d.comps[idx]
	return d.Add(src.Type, src.Props.Clone(), idx+1), nil
}

// Move relocates the component at display position from to display position to,
// shifting the components in between by one. Moving a component onto itself changes nothing.
func (d *Document) Move(from, to int) error {
	n := len(d.comps)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrInvalidRange
	}
	if from == to {
		return nil
	}

	comp := d.comps[from]
	if from < to {
		copy(d.comps[from:to], d.comps[from+1:to+1])
	} else {
		copy(d.comps[to+1:from+1], d.comps[to:from])
	}
	d.comps[to] = comp
	d.touch()
	return nil
}

// Load replaces the whole document with comps, sorted by their Order (stable).
// Orders are kept as given; gaps, ties and duplicate ids are logged, never rejected.
func (d *Document) Load(comps []Component) {
	loaded := CloneComponents(comps)
	sort.SliceStable(loaded, func(i, j int) bool { return loaded[i].Order < loaded[j].Order })

	seen := make(map[string]bool, len(loaded))
	for i, c := range loaded {
		if c.Order != i {
			d.log.Warn("loaded components have a sparse or duplicated order", map[string]interface{}{
				"component": c.ID, "order": c.Order, "position": i,
			})
		}
		if seen[c.ID] {
			d.log.Warn("loaded components have a duplicated id", map[string]interface{}{"component": c.ID})
		}
		seen[c.ID] = true
	}

	d.comps = loaded
	d.selected = ""
	d.dirty = false
	d.revision++
}

// Clear empties the document.
func (d *Document) Clear() {
	d.comps = nil
	d.selected = ""
	d.touch()
}
