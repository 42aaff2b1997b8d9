package user

// Snapshot is the denormalized author identity embedded in care events and
// adoption records. It is captured at write time and never live-updated.
type Snapshot struct {
	ID       string `firestore:"id" json:"id"`
	Name     string `firestore:"name" json:"name"`
	PhotoURL string `firestore:"photoURL,omitempty" json:"photoURL,omitempty"`
}
