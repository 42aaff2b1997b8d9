package tree

import (
	"strings"
	"time"

	"arboriza/backend/internal/domain/user"

	"google.golang.org/genproto/googleapis/type/latlng"
)

// HealthStatus is the enumerated condition of a tree.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusNeedsCare HealthStatus = "needs-care"
	StatusCritical  HealthStatus = "critical"
)

func (s HealthStatus) Valid() bool {
	switch s {
	case StatusHealthy, StatusNeedsCare, StatusCritical:
		return true
	}
	return false
}

// RegistrationMarker distinguishes the event that registered a tree from
// later care events. Display-only ("first message" badge), never identity.
const RegistrationMarker = "cadastrou"

// Tree is a trees/{treeId} document. Location is required for map display;
// a tree without one is skipped by the presenter, not deleted.
type Tree struct {
	ID             string         `firestore:"-" json:"id"`
	CommonName     string         `firestore:"commonName" json:"commonName"`
	ScientificName string         `firestore:"scientificName" json:"scientificName"`
	Status         HealthStatus   `firestore:"status" json:"status"`
	Location       *latlng.LatLng `firestore:"location,omitempty" json:"location,omitempty"`
	Address        string         `firestore:"address,omitempty" json:"address,omitempty"`
	CoverPhoto     string         `firestore:"coverPhoto,omitempty" json:"coverPhoto,omitempty"`
	Keywords       []string       `firestore:"keywords,omitempty" json:"-"`
	CreatedAt      time.Time      `firestore:"createdAt" json:"createdAt"`
	CreatedBy      user.Snapshot  `firestore:"createdBy" json:"createdBy"`
}

// HasLocation reports whether the tree can be rendered on the map.
func (t Tree) HasLocation() bool {
	return t.Location != nil
}

// CareEvent is a trees/{treeId}/careEvents/{id} document. Append-only.
type CareEvent struct {
	ID        string        `firestore:"-" json:"id"`
	TreeID    string        `firestore:"-" json:"treeId,omitempty"`
	Action    string        `firestore:"action" json:"action"`
	Message   string        `firestore:"message,omitempty" json:"message,omitempty"`
	PhotoURL  string        `firestore:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	User      user.Snapshot `firestore:"user" json:"user"`
	Timestamp time.Time     `firestore:"timestamp" json:"timestamp"`
}

// IsRegistration reports whether this is the event that registered the tree.
func (e CareEvent) IsRegistration() bool {
	return strings.Contains(e.Action, RegistrationMarker)
}

// Adopter is a trees/{treeId}/adopters/{uid} document.
type Adopter struct {
	UID       string    `firestore:"-" json:"uid"`
	Name      string    `firestore:"name" json:"name"`
	PhotoURL  string    `firestore:"photoURL,omitempty" json:"photoURL,omitempty"`
	AdoptedAt time.Time `firestore:"adoptedAt" json:"adoptedAt"`
}

// AdoptedTree is the users/{uid}/adoptedTrees/{treeId} mirror of an adoption.
type AdoptedTree struct {
	TreeID         string    `firestore:"-" json:"treeId"`
	CommonName     string    `firestore:"commonName" json:"commonName"`
	ScientificName string    `firestore:"scientificName" json:"scientificName"`
	CoverPhoto     string    `firestore:"coverPhoto,omitempty" json:"coverPhoto,omitempty"`
	AdoptedAt      time.Time `firestore:"adoptedAt" json:"adoptedAt"`
}
