package gamification

// Action is a point-earning kind of user activity.
type Action string

const (
	ActionRegisterTree  Action = "register_tree"
	ActionCareForTree   Action = "care_tree"
	ActionIdentifyPlant Action = "identify_plant"
	ActionAdoptTree     Action = "adopt_tree"
	ActionPostComment   Action = "post_comment"
)

// Stats are the award-managed counters of a user profile.
type Stats struct {
	Points          int
	TreesAdded      int
	TreesCared      int
	TreesIdentified int
}

// Apply computes the points delta and updated counters for an action. It is
// a pure function: unknown actions yield a zero delta and unchanged stats,
// and nothing ever decreases.
func Apply(action Action, s Stats) (int, Stats) {
	switch action {
	case ActionRegisterTree:
		s.Points += 100
		s.TreesAdded++
		return 100, s
	case ActionCareForTree:
		s.Points += 50
		s.TreesCared++
		return 50, s
	case ActionIdentifyPlant:
		s.Points += 10
		s.TreesIdentified++
		return 10, s
	case ActionAdoptTree:
		s.Points += 20
		return 20, s
	case ActionPostComment:
		s.Points += 5
		return 5, s
	default:
		return 0, s
	}
}
