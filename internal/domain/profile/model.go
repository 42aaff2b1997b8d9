package profile

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// UserProfile is the users/{uid} document. Points and counters only move
// through the gamification award path; they are never decremented here.
type UserProfile struct {
	UID       string `firestore:"-" json:"uid"`
	Name      string `firestore:"name" json:"name"`
	Email     string `firestore:"email" json:"email"`
	PhotoURL  string `firestore:"photoURL,omitempty" json:"photoURL,omitempty"`
	Level     int    `firestore:"level" json:"level"`
	LevelName string `firestore:"levelName" json:"levelName"`

	Points           int `firestore:"points" json:"points"`
	TreesCared       int `firestore:"treesCared" json:"treesCared"`
	TreesIdentified  int `firestore:"treesIdentified" json:"treesIdentified"`
	TreesAdded       int `firestore:"treesAdded" json:"treesAdded"`

	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *SignupInput) Trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
}

type UpdateProfileInput struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photoURL,omitempty"`
}

func (in *UpdateProfileInput) Trim() {
	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
	}
	if in.PhotoURL != nil {
		*in.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
}

// ProtectedFields cannot be written through UpdateProfile; points and
// counters only move through the award path.
var ProtectedFields = []string{"uid", "email", "points", "treesCared", "treesIdentified", "treesAdded", "level", "levelName", "createdAt"}

// PlaceholderAvatar builds the initial avatar URL used until the user
// uploads a photo. The initial is the first rune of the name, not the
// first byte, so accented names keep a valid letter.
func PlaceholderAvatar(name string) string {
	initial := "?"
	if name != "" {
		r, _ := utf8.DecodeRuneInString(name)
		initial = strings.ToUpper(string(r))
	}
	return fmt.Sprintf("https://placehold.co/128x128/cccccc/FFFFFF?text=%s", initial)
}
