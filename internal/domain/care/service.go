package care

import (
	"context"
	"fmt"
	"log"
	"time"

	"arboriza/backend/internal/domain/gamification"
	"arboriza/backend/internal/domain/profile"
	"arboriza/backend/internal/domain/tree"
	"arboriza/backend/internal/domain/user"
	"arboriza/backend/internal/plantnet"
	"arboriza/backend/internal/utils"

	"google.golang.org/genproto/googleapis/type/latlng"
)

const (
	actionRegistered = "cadastrou esta árvore."
	actionCared      = "cuidou da planta."
	actionCommented  = "comentou."

	defaultFirstMessage = "Adicionei esta nova amiga!"
	placeholderCover    = "https://placehold.co/600x300/81C784/FFFFFF?text=🌳"

	maxMessageLen = 500
)

// TreeStore is the slice of the tree repository the flows write through.
type TreeStore interface {
	Create(ctx context.Context, t tree.Tree) (*tree.Tree, error)
	Get(ctx context.Context, treeID string) (*tree.Tree, error)
	AddCareEvent(ctx context.Context, treeID string, e tree.CareEvent) (*tree.CareEvent, error)
	IsAdopted(ctx context.Context, treeID, uid string) (bool, error)
	SetAdoption(ctx context.Context, t tree.Tree, u user.Snapshot, at time.Time) error
	DeleteAdoption(ctx context.Context, treeID, uid string) error
}

// ProfileStore resolves the acting user for denormalized snapshots.
type ProfileStore interface {
	Get(ctx context.Context, uid string) (*profile.UserProfile, error)
}

// Awarder applies gamification points for completed flow steps.
type Awarder interface {
	Award(ctx context.Context, uid string, action gamification.Action) (*gamification.AwardResult, error)
}

// Identifier submits an image to the plant-identification service.
type Identifier interface {
	Identify(ctx context.Context, img plantnet.Image) (*plantnet.IdentifyResponse, error)
}

// Uploader stores a photo and returns its public URL.
type Uploader interface {
	UploadPhoto(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type Service struct {
	trees      TreeStore
	profiles   ProfileStore
	awards     Awarder
	identifier Identifier
	uploader   Uploader
}

func NewService(trees TreeStore, profiles ProfileStore, awards Awarder, identifier Identifier, uploader Uploader) *Service {
	return &Service{
		trees:      trees,
		profiles:   profiles,
		awards:     awards,
		identifier: identifier,
		uploader:   uploader,
	}
}

// Identify submits the image and interprets the top candidate. Below the
// confidence threshold it returns ErrUncertain; the caller clears any
// pending plant and explains. Nothing is retried. Identification points
// are not granted here; they land when the match enters the care flow,
// in Register. Calling this repeatedly earns nothing.
func (s *Service) Identify(ctx context.Context, img plantnet.Image) (*plantnet.Match, error) {
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrBadRequest)
	}
	resp, err := s.identifier.Identify(ctx, img)
	if err != nil {
		return nil, err
	}
	match, ok := plantnet.BestMatch(resp)
	if !ok {
		return nil, ErrUncertain
	}
	return match, nil
}

type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

type RegisterInput struct {
	Plant    *plantnet.Match
	Location *latlng.LatLng
	Status   tree.HealthStatus
	Address  string
	Message  string
	Photo    *Photo
	// PhotoURL carries an already-uploaded photo; ignored when Photo is set.
	PhotoURL string
}

type RegisterResult struct {
	Tree       *tree.Tree      `json:"tree"`
	FirstEvent *tree.CareEvent `json:"firstEvent,omitempty"`
	// IdentifyAward is the identification credit, granted once when the
	// pending match becomes a registered tree.
	IdentifyAward *gamification.AwardResult `json:"identifyAward,omitempty"`
	Award         *gamification.AwardResult `json:"award,omitempty"`
}

// Register creates a tree from a pending identification at the user's
// location, optionally with a first care event carrying the same photo.
func (s *Service) Register(ctx context.Context, uid string, in RegisterInput) (*RegisterResult, error) {
	if in.Plant == nil || in.Plant.ScientificName == "" {
		return nil, ErrNoPlant
	}
	if in.Location == nil {
		return nil, ErrNoLocation
	}
	status := in.Status
	if !status.Valid() {
		status = tree.StatusHealthy
	}

	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	snap := user.Snapshot{ID: uid, Name: p.Name, PhotoURL: p.PhotoURL}

	photoURL := s.uploadBestEffort(ctx, in.Photo)
	if photoURL == "" {
		photoURL = in.PhotoURL
	}
	cover := photoURL
	if cover == "" {
		cover = placeholderCover
	}

	now := time.Now().UTC()
	created, err := s.trees.Create(ctx, tree.Tree{
		CommonName:     in.Plant.CommonName,
		ScientificName: in.Plant.ScientificName,
		Status:         status,
		Location:       in.Location,
		Address:        in.Address,
		CoverPhoto:     cover,
		Keywords:       utils.SearchTokens(in.Plant.CommonName, in.Plant.ScientificName),
		CreatedAt:      now,
		CreatedBy:      snap,
	})
	if err != nil {
		return nil, err
	}

	res := &RegisterResult{Tree: created}

	message := utils.TrimMax(in.Message, maxMessageLen)
	if message != "" || photoURL != "" {
		if message == "" {
			message = defaultFirstMessage
		}
		first, err := s.trees.AddCareEvent(ctx, created.ID, tree.CareEvent{
			Action:    actionRegistered,
			Message:   message,
			PhotoURL:  photoURL,
			User:      snap,
			Timestamp: now,
		})
		if err != nil {
			// The tree exists; losing the first message is not fatal.
			log.Printf("first care event failed for %s: %v", created.ID, err)
		} else {
			res.FirstEvent = first
		}
	}

	res.IdentifyAward = s.awardBestEffort(ctx, uid, gamification.ActionIdentifyPlant)
	res.Award = s.awardBestEffort(ctx, uid, gamification.ActionRegisterTree)
	return res, nil
}

type CareInput struct {
	Message  string
	Photo    *Photo
	PhotoURL string
}

type CareResult struct {
	Event *tree.CareEvent           `json:"event"`
	Award *gamification.AwardResult `json:"award,omitempty"`
}

// Care appends a care event to an existing tree.
func (s *Service) Care(ctx context.Context, uid, treeID string, in CareInput) (*CareResult, error) {
	if treeID == "" {
		return nil, fmt.Errorf("%w: treeId is required", ErrBadRequest)
	}
	if _, err := s.trees.Get(ctx, treeID); err != nil {
		return nil, fmt.Errorf("%w: tree not found", ErrNotFound)
	}
	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	photoURL := s.uploadBestEffort(ctx, in.Photo)
	if photoURL == "" {
		photoURL = in.PhotoURL
	}
	event, err := s.trees.AddCareEvent(ctx, treeID, tree.CareEvent{
		Action:    actionCared,
		Message:   utils.TrimMax(in.Message, maxMessageLen),
		PhotoURL:  photoURL,
		User:      user.Snapshot{ID: uid, Name: p.Name, PhotoURL: p.PhotoURL},
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &CareResult{
		Event: event,
		Award: s.awardBestEffort(ctx, uid, gamification.ActionCareForTree),
	}, nil
}

// Comment appends a message-only event to a tree's mural.
func (s *Service) Comment(ctx context.Context, uid, treeID, message string) (*CareResult, error) {
	message = utils.TrimMax(message, maxMessageLen)
	if treeID == "" || message == "" {
		return nil, fmt.Errorf("%w: treeId and message are required", ErrBadRequest)
	}
	if _, err := s.trees.Get(ctx, treeID); err != nil {
		return nil, fmt.Errorf("%w: tree not found", ErrNotFound)
	}
	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	event, err := s.trees.AddCareEvent(ctx, treeID, tree.CareEvent{
		Action:    actionCommented,
		Message:   message,
		User:      user.Snapshot{ID: uid, Name: p.Name, PhotoURL: p.PhotoURL},
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &CareResult{
		Event: event,
		Award: s.awardBestEffort(ctx, uid, gamification.ActionPostComment),
	}, nil
}

type ToggleResult struct {
	Adopted bool                      `json:"adopted"`
	Award   *gamification.AwardResult `json:"award,omitempty"`
}

// ToggleAdoption creates or deletes the paired adoption records. The pair is
// written sequentially; both sides are present or absent after each settled
// toggle. Callers disable the trigger for the duration of the round trip.
func (s *Service) ToggleAdoption(ctx context.Context, uid, treeID string) (*ToggleResult, error) {
	if treeID == "" {
		return nil, fmt.Errorf("%w: treeId is required", ErrBadRequest)
	}
	t, err := s.trees.Get(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("%w: tree not found", ErrNotFound)
	}
	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	adopted, err := s.trees.IsAdopted(ctx, treeID, uid)
	if err != nil {
		return nil, err
	}

	if adopted {
		if err := s.trees.DeleteAdoption(ctx, treeID, uid); err != nil {
			return nil, err
		}
		return &ToggleResult{Adopted: false}, nil
	}

	snap := user.Snapshot{ID: uid, Name: p.Name, PhotoURL: p.PhotoURL}
	if err := s.trees.SetAdoption(ctx, *t, snap, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &ToggleResult{
		Adopted: true,
		Award:   s.awardBestEffort(ctx, uid, gamification.ActionAdoptTree),
	}, nil
}

// uploadBestEffort stores the photo when present. Upload failures are logged
// and the flow continues without the photo; the user can retry explicitly.
func (s *Service) uploadBestEffort(ctx context.Context, p *Photo) string {
	if p == nil || len(p.Data) == 0 {
		return ""
	}
	url, err := s.uploader.UploadPhoto(ctx, p.Filename, p.ContentType, p.Data)
	if err != nil {
		log.Printf("photo upload failed: %v", err)
		return ""
	}
	return url
}

// awardBestEffort never fails the flow that earned the points.
func (s *Service) awardBestEffort(ctx context.Context, uid string, action gamification.Action) *gamification.AwardResult {
	res, err := s.awards.Award(ctx, uid, action)
	if err != nil {
		log.Printf("award %s failed for %s: %v", action, uid, err)
		return nil
	}
	return res
}
