package tree

import (
	"context"
	"time"

	"arboriza/backend/internal/domain/user"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) Create(ctx context.Context, t Tree) (*Tree, error) {
	ref := r.fs.Collection("trees").NewDoc()
	_, err := ref.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = ref.ID
	return &t, nil
}

func (r *Repo) Get(ctx context.Context, treeID string) (*Tree, error) {
	doc, err := r.fs.Collection("trees").Doc(treeID).Get(ctx)
	if err != nil {
		return nil, err
	}
	var t Tree
	if err := doc.DataTo(&t); err != nil {
		return nil, err
	}
	t.ID = treeID
	return &t, nil
}

func (r *Repo) List(ctx context.Context, limit int) ([]Tree, error) {
	q := r.fs.Collection("trees").OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return collectTrees(q.Documents(ctx))
}

// SearchBySpecies matches trees whose species keywords contain the token.
func (r *Repo) SearchBySpecies(ctx context.Context, token string, limit int) ([]Tree, error) {
	q := r.fs.Collection("trees").
		Where("keywords", "array-contains", token).
		Limit(limit)
	return collectTrees(q.Documents(ctx))
}

func (r *Repo) AddCareEvent(ctx context.Context, treeID string, e CareEvent) (*CareEvent, error) {
	ref := r.fs.Collection("trees").Doc(treeID).Collection("careEvents").NewDoc()
	_, err := ref.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = ref.ID
	e.TreeID = treeID
	return &e, nil
}

func (r *Repo) ListCareEvents(ctx context.Context, treeID string, limit int) ([]CareEvent, error) {
	q := r.fs.Collection("trees").Doc(treeID).Collection("careEvents").
		OrderBy("timestamp", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return collectCareEvents(q.Documents(ctx))
}

// Feed reads the latest care events across every tree via a collection-group
// query, newest first. A zero before time means no upper bound.
func (r *Repo) Feed(ctx context.Context, limit int, before time.Time) ([]CareEvent, error) {
	q := r.fs.CollectionGroup("careEvents").OrderBy("timestamp", firestore.Desc)
	if !before.IsZero() {
		q = q.Where("timestamp", "<", before)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return collectCareEvents(q.Documents(ctx))
}

func (r *Repo) ListAdopters(ctx context.Context, treeID string) ([]Adopter, error) {
	it := r.fs.Collection("trees").Doc(treeID).Collection("adopters").Documents(ctx)
	out := []Adopter{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var a Adopter
		if err := doc.DataTo(&a); err != nil {
			return nil, err
		}
		a.UID = doc.Ref.ID
		out = append(out, a)
	}
	return out, nil
}

// IsAdopted checks for the tree-side adoption record.
func (r *Repo) IsAdopted(ctx context.Context, treeID, uid string) (bool, error) {
	doc, err := r.fs.Collection("trees").Doc(treeID).Collection("adopters").Doc(uid).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return false, nil
		}
		return false, err
	}
	return doc.Exists(), nil
}

// SetAdoption writes both sides of the adoption pair. The two writes are
// sequential, not transactional; the toggle flow owns the pairing.
func (r *Repo) SetAdoption(ctx context.Context, t Tree, u user.Snapshot, at time.Time) error {
	treeSide := r.fs.Collection("trees").Doc(t.ID).Collection("adopters").Doc(u.ID)
	if _, err := treeSide.Set(ctx, Adopter{Name: u.Name, PhotoURL: u.PhotoURL, AdoptedAt: at}); err != nil {
		return err
	}
	userSide := r.fs.Collection("users").Doc(u.ID).Collection("adoptedTrees").Doc(t.ID)
	_, err := userSide.Set(ctx, AdoptedTree{
		CommonName:     t.CommonName,
		ScientificName: t.ScientificName,
		CoverPhoto:     t.CoverPhoto,
		AdoptedAt:      at,
	})
	return err
}

// DeleteAdoption removes both sides of the adoption pair.
func (r *Repo) DeleteAdoption(ctx context.Context, treeID, uid string) error {
	if _, err := r.fs.Collection("trees").Doc(treeID).Collection("adopters").Doc(uid).Delete(ctx); err != nil {
		return err
	}
	_, err := r.fs.Collection("users").Doc(uid).Collection("adoptedTrees").Doc(treeID).Delete(ctx)
	return err
}

func (r *Repo) ListAdoptedTrees(ctx context.Context, uid string) ([]AdoptedTree, error) {
	it := r.fs.Collection("users").Doc(uid).Collection("adoptedTrees").
		OrderBy("adoptedAt", firestore.Desc).Documents(ctx)
	out := []AdoptedTree{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var a AdoptedTree
		if err := doc.DataTo(&a); err != nil {
			return nil, err
		}
		a.TreeID = doc.Ref.ID
		out = append(out, a)
	}
	return out, nil
}

func collectTrees(it *firestore.DocumentIterator) ([]Tree, error) {
	out := []Tree{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var t Tree
		if err := doc.DataTo(&t); err != nil {
			return nil, err
		}
		t.ID = doc.Ref.ID
		out = append(out, t)
	}
	return out, nil
}

func collectCareEvents(it *firestore.DocumentIterator) ([]CareEvent, error) {
	out := []CareEvent{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var e CareEvent
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		e.ID = doc.Ref.ID
		if parent := doc.Ref.Parent.Parent; parent != nil {
			e.TreeID = parent.ID
		}
		out = append(out, e)
	}
	return out, nil
}
