package editor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
)

// Catalog is what an editing session needs from the widget catalog.
type Catalog interface {
	Defaults
	Widgets
}

type DeviceView string

const (
	DeviceDesktop DeviceView = "desktop"
	DeviceTablet  DeviceView = "tablet"
	DeviceMobile  DeviceView = "mobile"
)

func (v DeviceView) Valid() bool {
	switch v {
	case DeviceDesktop, DeviceTablet, DeviceMobile:
		return true
	}
	return false
}

// Page is the persisted page as seen by the editor.
type Page struct {
	ID         string
	SchoolID   string
	Name       string
	Published  bool
	Components []Component
}

// SaveRequest writes the whole component list of a page, and publishes it if Publish is set.
type SaveRequest struct {
	Components []Component
	Publish    bool
}

// PageStore is the persistence collaborator of the editor.
type PageStore interface {
	LoadPage(ctx context.Context, id string) (Page, error)
	SavePage(ctx context.Context, id string, req SaveRequest) error
}

// State is a point-in-time view of a session.
type State struct {
	SessionID  string      `json:"session_id"`
	PageID     string      `json:"page_id"`
	SchoolID   string      `json:"school_id"`
	PageName   string      `json:"page_name"`
	Published  bool        `json:"is_published"`
	Components []Component `json:"components"`
	Selected   string      `json:"selected,omitempty"`
	Dirty      bool        `json:"has_changes"`
	Saving     bool        `json:"saving"`
	Device     DeviceView  `json:"device"`
	Gesture    Gesture     `json:"gesture"`
	OpenedAt   time.Time   `json:"opened_at"`
}

// Session is the editing session of one page. All of its methods are safe for concurrent use;
// operations are applied in the order they acquire the session.
type Session struct {
	id     string
	pageID string
	store  PageStore
	log    core.Logger

	mu        sync.Mutex
	doc       *Document
	dnd       *Coordinator
	device    DeviceView
	schoolID  string
	pageName  string
	published bool
	openedAt  time.Time

	saving atomic.Bool
}

func NewSession(pageID string, store PageStore, cat Catalog, logger core.Logger) *Session {
	if logger == nil {
		logger = core.NewDiscardLogger()
	}
	doc := NewDocument(cat, logger)
	return &Session{
		id:     NewSessionID(),
		pageID: pageID,
		store:  store,
		log:    logger,
		doc:    doc,
		dnd:    NewCoordinator(doc, cat, logger),
		device: DeviceDesktop,
	}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) PageID() string { return s.pageID }

// Open hydrates the document from the store. On failure the current document is left untouched.
func (s *Session) Open(ctx context.Context) error {
	p, err := s.store.LoadPage(ctx, s.pageID)
	if err != nil {
		return errors.Wrap(err, "loading page")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Load(p.Components)
	s.dnd.Cancel()
	s.schoolID = p.SchoolID
	s.pageName = p.Name
	s.published = p.Published
	s.openedAt = time.Now().UTC()
	return nil
}

// Save writes the component list. A save requested while another one is in flight is ignored:
// saved is false and err is nil. A failed save leaves the document as it is.
func (s *Session) Save(ctx context.Context) (saved bool, err error) {
	return s.save(ctx, false)
}

// Publish saves and marks the page as published.
func (s *Session) Publish(ctx context.Context) (saved bool, err error) {
	return s.save(ctx, true)
}

func (s *Session) save(ctx context.Context, publish bool) (bool, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return false, nil
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	comps := s.doc.Components()
	rev := s.doc.Revision()
	s.mu.Unlock()

	if err := s.store.SavePage(ctx, s.pageID, SaveRequest{Components: comps, Publish: publish}); err != nil {
		s.log.Warn("saving page failed", err, map[string]interface{}{"page": s.pageID})
		return true, errors.Wrap(err, "saving page")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.MarkSaved(rev)
	if publish {
		s.published = true
	}
	return true, nil
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	return State{
		SessionID:  s.id,
		PageID:     s.pageID,
		SchoolID:   s.schoolID,
		PageName:   s.pageName,
		Published:  s.published,
		Components: s.doc.Components(),
		Selected:   s.doc.Selected(),
		Dirty:      s.doc.Dirty(),
		Saving:     s.saving.Load(),
		Device:     s.device,
		Gesture:    s.dnd.Gesture(),
		OpenedAt:   s.openedAt,
	}
}

// Edit runs fn with exclusive access to the document and the drag coordinator.
func (s *Session) Edit(fn func(doc *Document, dnd *Coordinator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc, s.dnd)
}

func (s *Session) Add(typ string, props catalog.Props, at ...int) (id string) {
	_ = s.Edit(func(doc *Document, _ *Coordinator) error {
		id = doc.Add(typ, props, at...)
		return nil
	})
	return id
}

func (s *Session) Update(id string, partial catalog.Props) error {
	return s.Edit(func(doc *Document, _ *Coordinator) error { return doc.Update(id, partial) })
}

func (s *Session) Remove(id string) error {
	return s.Edit(func(doc *Document, _ *Coordinator) error { return doc.Remove(id) })
}

func (s *Session) Duplicate(id string) (newID string, err error) {
	err = s.Edit(func(doc *Document, _ *Coordinator) error {
		newID, err = doc.Duplicate(id)
		return err
	})
	return newID, err
}

func (s *Session) Move(from, to int) error {
	return s.Edit(func(doc *Document, _ *Coordinator) error { return doc.Move(from, to) })
}

func (s *Session) Clear() {
	_ = s.Edit(func(doc *Document, _ *Coordinator) error {
		doc.Clear()
		return nil
	})
}

func (s *Session) Select(id string) error {
	return s.Edit(func(doc *Document, _ *Coordinator) error { return doc.Select(id) })
}

func (s *Session) Deselect() {
	_ = s.Edit(func(doc *Document, _ *Coordinator) error {
		doc.Deselect()
		return nil
	})
}

func (s *Session) SetDeviceView(v DeviceView) error {
	if !v.Valid() {
		return ErrInvalidDevice
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device = v
	return nil
}

func (s *Session) StartDrag(d Draggable) error {
	return s.Edit(func(_ *Document, dnd *Coordinator) error { return dnd.Start(d) })
}

func (s *Session) DragOver(t Target) error {
	return s.Edit(func(_ *Document, dnd *Coordinator) error { return dnd.Over(t) })
}

func (s *Session) Drop(t Target) (res DropResult, err error) {
	err = s.Edit(func(_ *Document, dnd *Coordinator) error {
		res, err = dnd.Drop(t)
		return err
	})
	return res, err
}

func (s *Session) CancelDrag() {
	_ = s.Edit(func(_ *Document, dnd *Coordinator) error {
		dnd.Cancel()
		return nil
	})
}
