package tree

import (
	"context"
	"fmt"
	"time"

	"arboriza/backend/internal/utils"
)

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, treeID string) (*Tree, error) {
	if treeID == "" {
		return nil, fmt.Errorf("%w: treeId is required", ErrBadRequest)
	}
	t, err := s.repo.Get(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("%w: tree not found", ErrNotFound)
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]Tree, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.repo.List(ctx, limit)
}

func (s *Service) Search(ctx context.Context, q string, limit int) ([]Tree, error) {
	token := utils.NormalizeNameLower(q)
	if token == "" {
		return nil, fmt.Errorf("%w: query is required", ErrBadRequest)
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.repo.SearchBySpecies(ctx, token, limit)
}

func (s *Service) ListCareEvents(ctx context.Context, treeID string, limit int) ([]CareEvent, error) {
	if treeID == "" {
		return nil, fmt.Errorf("%w: treeId is required", ErrBadRequest)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListCareEvents(ctx, treeID, limit)
}

func (s *Service) ListAdopters(ctx context.Context, treeID string) ([]Adopter, error) {
	if treeID == "" {
		return nil, fmt.Errorf("%w: treeId is required", ErrBadRequest)
	}
	return s.repo.ListAdopters(ctx, treeID)
}

func (s *Service) ListAdoptedTrees(ctx context.Context, uid string) ([]AdoptedTree, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	return s.repo.ListAdoptedTrees(ctx, uid)
}

// FeedItem wraps a care event with its display badge.
type FeedItem struct {
	CareEvent
	FirstMessage bool `json:"firstMessage"`
}

// Feed returns the latest events that carry a photo or a message, newest
// first. Events with neither are skipped, not surfaced empty.
func (s *Service) Feed(ctx context.Context, limit int, before time.Time) ([]FeedItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 15
	}
	events, err := s.repo.Feed(ctx, limit, before)
	if err != nil {
		return nil, err
	}
	return BuildFeed(events), nil
}

// BuildFeed filters events down to displayable posts and applies the
// first-message badge.
func BuildFeed(events []CareEvent) []FeedItem {
	out := []FeedItem{}
	for _, e := range events {
		if e.PhotoURL == "" && e.Message == "" {
			continue
		}
		out = append(out, FeedItem{CareEvent: e, FirstMessage: e.IsRegistration()})
	}
	return out
}
