// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/google/uuid"
)

// ID identifies a registered surface.
type ID = uuid.UUID

// Registry manages the surfaces that share one physical canvas.
//
// Hosts register surfaces and report size, visibility and device pixel
// ratio changes, possibly from window event callbacks. The render loop
// calls Apply to lay them out for the current scale.
//
// Example:
//
//	reg := surface.NewRegistry()
//	id, _ := reg.Add("main", 800, 600)
//	_ = reg.SetDevicePixelRatio(2)
//	layout := reg.Apply(1.0)
//	s, _ := reg.Get(id) // s.BackingWidth == 1600
type Registry struct {
	mu       sync.RWMutex
	surfaces map[ID]*Surface
	order    []ID
	dpr      float64
	stale    bool
	regroup  bool    // surface set or visibility changed since the last Apply
	applied  float64 // scale of the last Apply, 0 before the first
	layout   Layout
}

// NewRegistry creates an empty registry with a device pixel ratio of 1.
func NewRegistry() *Registry {
	return &Registry{
		surfaces: make(map[ID]*Surface),
		dpr:      1,
	}
}

// Add registers a visible surface with the given logical size and returns
// its ID. The surface starts dirty and takes its geometry at the next Apply.
func (r *Registry) Add(name string, width, height int) (ID, error) {
	if err := checkDimensions(width, height); err != nil {
		return uuid.Nil, err
	}

	s := &Surface{
		ID:      uuid.New(),
		Name:    name,
		Width:   width,
		Height:  height,
		Visible: true,
		Dirty:   true,
	}

	r.mu.Lock()
	r.surfaces[s.ID] = s
	r.order = append(r.order, s.ID)
	r.stale = true
	r.regroup = true
	r.mu.Unlock()

	slogger().Info("surface: registered", "id", s.ID, "name", name, "width", width, "height", height)
	return s.ID, nil
}

// Remove unregisters a surface.
func (r *Registry) Remove(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.surfaces[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(r.surfaces, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.stale = true
	r.regroup = true
	return nil
}

// Resize changes the logical size of a surface.
// Resizing to the current size is a no-op.
func (r *Registry) Resize(id ID, width, height int) error {
	if err := checkDimensions(width, height); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.surfaces[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if s.Width == width && s.Height == height {
		return nil
	}
	s.Width = width
	s.Height = height
	r.stale = true
	return nil
}

// SetVisible shows or hides a surface.
func (r *Registry) SetVisible(id ID, visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.surfaces[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if s.Visible == visible {
		return nil
	}
	s.Visible = visible
	r.stale = true
	r.regroup = true
	return nil
}

// SetDevicePixelRatio sets the physical pixels per logical pixel for all
// surfaces.
func (r *Registry) SetDevicePixelRatio(dpr float64) error {
	if math.IsNaN(dpr) || math.IsInf(dpr, 0) || dpr <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPixelRatio, dpr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dpr == dpr {
		return nil
	}
	slogger().Info("surface: device pixel ratio changed", "old", r.dpr, "new", dpr)
	r.dpr = dpr
	r.stale = true
	return nil
}

// DevicePixelRatio returns the current device pixel ratio.
func (r *Registry) DevicePixelRatio() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dpr
}

// SyncWindow copies a window's logical size onto surface id and its scale
// factor onto the registry's device pixel ratio. A zero-sized (minimized)
// window leaves the surface size alone.
func (r *Registry) SyncWindow(id ID, wp gpucontext.WindowProvider) error {
	if wp == nil {
		return ErrNilWindow
	}
	if err := r.SetDevicePixelRatio(wp.ScaleFactor()); err != nil {
		return err
	}
	w, h := wp.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	return r.Resize(id, w, h)
}

// Get returns a snapshot of a surface.
func (r *Registry) Get(id ID) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.surfaces[id]
	if !ok {
		return Surface{}, false
	}
	return *s, true
}

// List returns snapshots of all surfaces in registration order.
func (r *Registry) List() []Surface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// snapshot copies surfaces in registration order. Must be called with
// the lock held.
func (r *Registry) snapshot() []Surface {
	out := make([]Surface, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.surfaces[id])
	}
	return out
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// VisibleCount returns the number of visible surfaces.
func (r *Registry) VisibleCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.surfaces {
		if s.Visible {
			n++
		}
	}
	return n
}

// NeedsLayout reports whether Apply(scale) would produce a different
// layout than the last one: surfaces or the device pixel ratio changed, or
// scale differs from the last applied scale.
func (r *Registry) NeedsLayout(scale float64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stale || r.applied != scale
}

// Apply lays out all surfaces for scale, stores the geometry on each
// surface and returns the layout. Surfaces whose geometry changed are
// marked dirty. Every surface is marked dirty when the surface set or
// visibility changed, or when the shared backing was resized. The dirty
// flag stays set until TakeDirty.
func (r *Registry) Apply(scale float64) Layout {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := ComputeLayout(r.snapshot(), r.dpr, scale)
	all := r.regroup ||
		l.BackingWidth != r.layout.BackingWidth ||
		l.BackingHeight != r.layout.BackingHeight
	changed := 0
	for i := range l.Surfaces {
		next := &l.Surfaces[i]
		cur := r.surfaces[next.ID]
		if all || !cur.sameGeometry(*next) {
			next.Dirty = true
			changed++
		}
		*cur = *next
	}

	r.layout = l
	r.applied = l.Scale
	r.stale = false
	r.regroup = false

	if changed > 0 {
		slogger().Debug("surface: layout applied",
			"scale", l.Scale, "dpr", l.DevicePixelRatio,
			"backing_w", l.BackingWidth, "backing_h", l.BackingHeight,
			"changed", changed)
	}
	return l
}

// Layout returns the most recent layout produced by Apply.
func (r *Registry) Layout() Layout {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l := r.layout
	l.Surfaces = append([]Surface(nil), r.layout.Surfaces...)
	return l
}

// MarkDirty requests a redraw of a surface.
func (r *Registry) MarkDirty(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.surfaces[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	s.Dirty = true
	return nil
}

// TakeDirty reports whether a surface is dirty and clears the flag.
// Unknown IDs report false.
func (r *Registry) TakeDirty(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.surfaces[id]
	if !ok || !s.Dirty {
		return false
	}
	s.Dirty = false
	return true
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// Errors.
var (
	// ErrInvalidDimensions is returned when a width or height is not positive.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrInvalidPixelRatio is returned for a non-positive or non-finite
	// device pixel ratio.
	ErrInvalidPixelRatio = errors.New("surface: invalid device pixel ratio")

	// ErrNilWindow is returned when SyncWindow is given a nil provider.
	ErrNilWindow = errors.New("surface: nil WindowProvider")
)

// NotFoundError indicates that no surface is registered under ID.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return "surface: not found: " + e.ID.String()
}
