package profile

import (
	"context"
	"fmt"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
)

type Service struct {
	repo       *Repo
	authClient *auth.Client
}

func NewService(repo *Repo, authClient *auth.Client) *Service {
	return &Service{repo: repo, authClient: authClient}
}

// Signup creates the auth account and its profile document. The profile doc
// is written once here and only merged afterwards.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*UserProfile, error) {
	in.Trim()
	if len(in.Name) < 3 {
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, MsgInvalidName)
	}
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrBadRequest)
	}

	params := (&auth.UserToCreate{}).
		Email(in.Email).
		Password(in.Password).
		DisplayName(in.Name)

	rec, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		return nil, mapAuthError(err)
	}

	now := time.Now().UTC()
	p := UserProfile{
		Name:      in.Name,
		Email:     in.Email,
		PhotoURL:  PlaceholderAvatar(in.Name),
		Level:     1,
		LevelName: "Semente",
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, rec.UID, p); err != nil {
		// Auth account exists but the profile write failed; the client is
		// told to log in again, which recreates nothing.
		log.Printf("profile create failed for %s: %v", rec.UID, err)
		return nil, err
	}
	p.UID = rec.UID
	return &p, nil
}

func (s *Service) GetProfile(ctx context.Context, uid string) (*UserProfile, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return p, nil
}

// UpdateProfile merges the allowed fields; protected fields (points,
// counters, identity) never pass through here.
func (s *Service) UpdateProfile(ctx context.Context, uid string, in UpdateProfileInput) error {
	if uid == "" {
		return fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	in.Trim()

	updates := map[string]any{
		"updatedAt": time.Now().UTC(),
	}
	if in.Name != nil {
		if len(*in.Name) < 3 {
			return fmt.Errorf("%w: %s", ErrBadRequest, MsgInvalidName)
		}
		updates["name"] = *in.Name
	}
	if in.PhotoURL != nil {
		updates["photoURL"] = *in.PhotoURL
	}

	return s.repo.Merge(ctx, uid, updates)
}
