package mapview

import (
	"context"
	"sync"
	"time"

	"arboriza/backend/internal/domain/tree"

	"google.golang.org/genproto/googleapis/type/latlng"
)

// Icon identifies the marker artwork for a tree's health status.
type Icon string

const (
	IconHealthy   Icon = "tree-healthy"
	IconNeedsCare Icon = "tree-needs-care"
	IconCritical  Icon = "tree-critical"
	IconDefault   Icon = "tree-default"
	IconUser      Icon = "user-position"
)

// IconFor maps a health status to its marker icon. Unknown statuses get the
// default artwork rather than no marker.
func IconFor(status tree.HealthStatus) Icon {
	switch status {
	case tree.StatusHealthy:
		return IconHealthy
	case tree.StatusNeedsCare:
		return IconNeedsCare
	case tree.StatusCritical:
		return IconCritical
	default:
		return IconDefault
	}
}

type Marker struct {
	TreeID     string  `json:"treeId"`
	Title      string  `json:"title"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Icon       Icon    `json:"icon"`
	Adoptable  bool    `json:"adoptable"`
	CoverPhoto string  `json:"coverPhoto,omitempty"`
}

// Locator resolves the device position. Implementations must respect the
// context deadline.
type Locator interface {
	Locate(ctx context.Context) (*latlng.LatLng, error)
}

// Presenter keeps the marker layer in sync with tree snapshots. It is keyed
// by tree ID, so repeated snapshots and repositioned trees converge to one
// marker per tree. Safe for concurrent use.
type Presenter struct {
	mu sync.Mutex

	initialized bool
	markers     map[string]Marker
	center      latlng.LatLng
	userAt      *latlng.LatLng

	locator     Locator
	locateWait  time.Duration
	defaultPos  latlng.LatLng
	locationSet bool
}

const defaultLocateWait = 10 * time.Second

func NewPresenter(locator Locator, defaultPos latlng.LatLng) *Presenter {
	return &Presenter{
		markers:    map[string]Marker{},
		center:     defaultPos,
		locator:    locator,
		locateWait: defaultLocateWait,
		defaultPos: defaultPos,
	}
}

// Init prepares the map layer. Calling it again is a no-op; the existing
// markers and center survive.
func (p *Presenter) Init() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = true
}

func (p *Presenter) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Apply replaces the marker set from a full tree snapshot. Trees without a
// stored location are skipped. A tree already on the map is moved, never
// duplicated.
func (p *Presenter) Apply(trees []tree.Tree) {
	next := make(map[string]Marker, len(trees))
	for _, t := range trees {
		if !t.HasLocation() {
			continue
		}
		next[t.ID] = Marker{
			TreeID:     t.ID,
			Title:      t.CommonName,
			Latitude:   t.Location.Latitude,
			Longitude:  t.Location.Longitude,
			Icon:       IconFor(t.Status),
			Adoptable:  true,
			CoverPhoto: t.CoverPhoto,
		}
	}
	p.mu.Lock()
	p.markers = next
	p.mu.Unlock()
}

// Upsert places or moves a single tree marker.
func (p *Presenter) Upsert(t tree.Tree) {
	if !t.HasLocation() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markers[t.ID] = Marker{
		TreeID:     t.ID,
		Title:      t.CommonName,
		Latitude:   t.Location.Latitude,
		Longitude:  t.Location.Longitude,
		Icon:       IconFor(t.Status),
		Adoptable:  true,
		CoverPhoto: t.CoverPhoto,
	}
}

// Markers returns the current marker layer in no particular order.
func (p *Presenter) Markers() []Marker {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Marker, 0, len(p.markers))
	for _, m := range p.markers {
		out = append(out, m)
	}
	return out
}

// Locate centers the map on the device position, waiting a bounded time for
// the locator. On timeout or refusal the default center is used and the map
// stays usable; the caller may surface an explanation.
func (p *Presenter) Locate(ctx context.Context) (latlng.LatLng, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.locateWait)
	defer cancel()

	pos, err := p.locator.Locate(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil || pos == nil {
		p.center = p.defaultPos
		p.userAt = nil
		p.locationSet = false
		return p.center, false
	}
	p.center = *pos
	p.userAt = pos
	p.locationSet = true
	return p.center, true
}

// Center returns the current map center.
func (p *Presenter) Center() latlng.LatLng {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.center
}

// UserPosition returns the last successful fix, or nil when the map is on
// the fallback center.
func (p *Presenter) UserPosition() *latlng.LatLng {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.userAt == nil {
		return nil
	}
	pos := *p.userAt
	return &pos
}

// HasFix reports whether the presenter holds a real device position.
func (p *Presenter) HasFix() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locationSet
}

// Reset clears markers and position state, for logout.
func (p *Presenter) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = false
	p.markers = map[string]Marker{}
	p.center = p.defaultPos
	p.userAt = nil
	p.locationSet = false
}
