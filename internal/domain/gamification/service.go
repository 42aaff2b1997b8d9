package gamification

import (
	"context"
	"fmt"
	"log"
	"time"

	"arboriza/backend/internal/domain/profile"
)

// ProfileStore is the slice of the profile repository the award path needs.
type ProfileStore interface {
	Get(ctx context.Context, uid string) (*profile.UserProfile, error)
	Merge(ctx context.Context, uid string, fields map[string]any) error
}

type Service struct {
	profiles ProfileStore
}

func NewService(profiles ProfileStore) *Service {
	return &Service{profiles: profiles}
}

// AwardResult reports the applied delta and the post-award view of the user.
type AwardResult struct {
	Action    Action `json:"action"`
	Points    int    `json:"points"`
	Total     int    `json:"total"`
	Level     int    `json:"level"`
	LevelName string `json:"levelName"`
	Stats     Stats  `json:"stats"`
	// Persisted is false when the merge write failed. The returned stats are
	// still the incremented ones; the optimistic update is never rolled back.
	Persisted bool `json:"persisted"`
}

// Award applies the action's delta to the user's counters and merges the
// result into users/{uid}. Unknown actions are a no-op.
func (s *Service) Award(ctx context.Context, uid string, action Action) (*AwardResult, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	current := Stats{
		Points:          p.Points,
		TreesAdded:      p.TreesAdded,
		TreesCared:      p.TreesCared,
		TreesIdentified: p.TreesIdentified,
	}
	delta, next := Apply(action, current)
	level, levelName := LevelFor(next.Points)
	res := &AwardResult{
		Action:    action,
		Points:    delta,
		Total:     next.Points,
		Level:     level,
		LevelName: levelName,
		Stats:     next,
		Persisted: true,
	}
	if delta == 0 {
		return res, nil
	}

	err = s.profiles.Merge(ctx, uid, map[string]any{
		"points":          next.Points,
		"treesAdded":      next.TreesAdded,
		"treesCared":      next.TreesCared,
		"treesIdentified": next.TreesIdentified,
		"level":           level,
		"levelName":       levelName,
		"updatedAt":       time.Now().UTC(),
	})
	if err != nil {
		// Accepted inconsistency: the caller keeps the incremented stats.
		log.Printf("award persist failed for %s (%s): %v", uid, action, err)
		res.Persisted = false
	}
	return res, nil
}

// Summary is the profile/achievements screen payload.
type Summary struct {
	Stats        Stats         `json:"stats"`
	Level        int           `json:"level"`
	LevelName    string        `json:"levelName"`
	Progress     int           `json:"progress"`
	Achievements []Achievement `json:"achievements"`
}

func (s *Service) Summarize(ctx context.Context, uid string) (*Summary, error) {
	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	st := Stats{
		Points:          p.Points,
		TreesAdded:      p.TreesAdded,
		TreesCared:      p.TreesCared,
		TreesIdentified: p.TreesIdentified,
	}
	level, levelName := LevelFor(st.Points)
	return &Summary{
		Stats:        st,
		Level:        level,
		LevelName:    levelName,
		Progress:     ProgressPercent(st.Points),
		Achievements: Achievements(st),
	}, nil
}
