package profile

import (
	"context"

	"cloud.google.com/go/firestore"
)

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) Get(ctx context.Context, uid string) (*UserProfile, error) {
	doc, err := r.fs.Collection("users").Doc(uid).Get(ctx)
	if err != nil {
		return nil, err
	}
	var p UserProfile
	if err := doc.DataTo(&p); err != nil {
		return nil, err
	}
	p.UID = uid
	return &p, nil
}

// Create writes the initial profile document. It fails when the document
// already exists; profiles are created exactly once, at signup.
func (r *Repo) Create(ctx context.Context, uid string, p UserProfile) error {
	_, err := r.fs.Collection("users").Doc(uid).Create(ctx, p)
	return err
}

// Merge applies a partial update to users/{uid} without replacing the
// document.
func (r *Repo) Merge(ctx context.Context, uid string, fields map[string]any) error {
	_, err := r.fs.Collection("users").Doc(uid).Set(ctx, fields, firestore.MergeAll)
	return err
}
