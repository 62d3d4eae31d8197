package dock

import (
	"context"
	"fmt"
	"testing"
)

// fakeHost hands out sequentially named groups. With delay > 0 groups are
// realized only after that many scheduler ticks.
type fakeHost struct {
	seq     int
	calls   int
	ticks   int
	delay   int
	fail    bool
	pending []*fakeContainer
}

type fakeContainer struct {
	group     *TabGroup
	remaining int
}

func (c *fakeContainer) RealizedGroup() *TabGroup {
	if c.remaining > 0 {
		return nil
	}
	return c.group
}

func (h *fakeHost) GetNewHost(partition string, existing *TabGroup) *NewHost {
	h.calls++
	if h.fail {
		return nil
	}
	h.seq++
	g := NewTabGroup(fmt.Sprintf("G%d", h.seq), partition, "")
	c := &fakeContainer{group: g, remaining: h.delay}
	if h.delay == 0 {
		return &NewHost{Container: c, Group: g}
	}
	h.pending = append(h.pending, c)
	return &NewHost{Container: c}
}

func (h *fakeHost) Yield(ctx context.Context) error {
	h.ticks++
	for _, c := range h.pending {
		if c.remaining > 0 {
			c.remaining--
		}
	}
	return ctx.Err()
}

type fakeWindows struct {
	main    WindowID
	origins map[WindowID]Point
	hidden  map[WindowID]bool
	reg     *Registry
	seq     int
	fail    bool
	created []WindowID
	shown   []WindowID
	closed  []WindowID
}

func (w *fakeWindows) MainWindow() WindowID { return w.main }

func (w *fakeWindows) ToWindow(id WindowID, p Point) (Point, bool) {
	if w.hidden[id] {
		return Point{}, false
	}
	o := w.origins[id]
	return Point{X: p.X - o.X, Y: p.Y - o.Y}, true
}

func (w *fakeWindows) CreateWindow(partition string) (WindowID, *TabGroup, error) {
	if w.fail {
		return "", nil, fmt.Errorf("no display")
	}
	w.seq++
	id := WindowID(fmt.Sprintf("win-%d", w.seq))
	g := NewTabGroup(fmt.Sprintf("W%d", w.seq), partition, id)
	if err := w.reg.Register(NewRoot(string(id), partition, id, g)); err != nil {
		return "", nil, err
	}
	w.created = append(w.created, id)
	return id, g, nil
}

func (w *fakeWindows) ShowWindow(id WindowID) { w.shown = append(w.shown, id) }

func (w *fakeWindows) CloseWindow(id WindowID) {
	w.closed = append(w.closed, id)
	if r := w.reg.RootForWindow(id); r != nil {
		w.reg.Unregister(r)
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeHost, *fakeWindows) {
	t.Helper()
	reg := NewRegistry()
	host := &fakeHost{}
	windows := &fakeWindows{main: "main", origins: map[WindowID]Point{}, reg: reg}
	engine := NewEngine(reg, host, windows)
	engine.SetScheduler(host)
	return engine, host, windows
}

func newGroup(name, partition string, window WindowID, ids ...string) *TabGroup {
	g := NewTabGroup(name, partition, window)
	for _, id := range ids {
		g.Add(NewItem(id, id))
	}
	return g
}

func mustRegister(t *testing.T, reg *Registry, r *Root) *Root {
	t.Helper()
	if err := reg.Register(r); err != nil {
		t.Fatalf("register %q: %v", r.Name, err)
	}
	return r
}

// countTopLeft returns how many leaves of r are marked top-left.
func countTopLeft(r *Root) int {
	n := 0
	for _, g := range r.Groups() {
		if g.IsTopLeft() {
			n++
		}
	}
	return n
}

func countOffered(reg *Registry) int {
	n := 0
	for _, r := range reg.Roots() {
		for _, z := range r.Zones() {
			if z.IsOffered() {
				n++
			}
		}
	}
	return n
}

func itemByID(g *TabGroup, id string) *Item {
	for _, it := range g.Items() {
		if it.ID == id {
			return it
		}
	}
	return nil
}
