package app

import "sync"

// Screen names a navigable view of the app.
type Screen string

const (
	ScreenOnboarding   Screen = "onboarding"
	ScreenLogin        Screen = "login"
	ScreenSignup       Screen = "signup"
	ScreenMap          Screen = "map"
	ScreenCamera       Screen = "camera"
	ScreenResult       Screen = "result"
	ScreenCare         Screen = "care"
	ScreenTreeProfile  Screen = "tree-profile"
	ScreenFeed         Screen = "feed"
	ScreenProfile      Screen = "profile"
	ScreenAchievements Screen = "achievements"
	ScreenLearn        Screen = "learn"
)

// public screens are reachable without a session.
var publicScreens = map[Screen]bool{
	ScreenOnboarding: true,
	ScreenLogin:      true,
	ScreenSignup:     true,
}

var knownScreens = map[Screen]bool{
	ScreenOnboarding: true, ScreenLogin: true, ScreenSignup: true,
	ScreenMap: true, ScreenCamera: true, ScreenResult: true,
	ScreenCare: true, ScreenTreeProfile: true, ScreenFeed: true,
	ScreenProfile: true, ScreenAchievements: true, ScreenLearn: true,
}

// EntryHook runs every time its screen is entered, including re-entry to the
// screen already showing. Hooks must be idempotent.
type EntryHook func()

// Controller routes between screens with auth and state guards. A show call
// never fails: when a guard rejects the target, the controller lands on a
// fallback screen instead.
type Controller struct {
	mu      sync.Mutex
	session *Session
	current Screen
	hooks   map[Screen][]EntryHook
}

func NewController(session *Session) *Controller {
	return &Controller{
		session: session,
		current: ScreenOnboarding,
		hooks:   map[Screen][]EntryHook{},
	}
}

// OnEnter registers a hook for a screen. Registration order is firing order.
func (c *Controller) OnEnter(s Screen, fn EntryHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks[s] = append(c.hooks[s], fn)
}

// Show navigates to the requested screen, or to the guard's fallback, and
// returns the screen actually shown. Re-showing the current screen runs its
// entry hooks again.
func (c *Controller) Show(s Screen) Screen {
	target := c.resolve(s)

	c.mu.Lock()
	c.current = target
	hooks := append([]EntryHook(nil), c.hooks[target]...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return target
}

// resolve applies the guards. Protected screens need a session; unknown
// screens land on the map; the result screen needs a pending identification;
// tree screens need an open tree.
func (c *Controller) resolve(s Screen) Screen {
	if !publicScreens[s] && !c.session.SignedIn() {
		return ScreenLogin
	}
	if !knownScreens[s] {
		return ScreenMap
	}
	switch s {
	case ScreenResult:
		if c.session.PendingPlant() == nil {
			return ScreenMap
		}
	case ScreenTreeProfile, ScreenCare:
		if c.session.CurrentTree() == nil {
			return ScreenMap
		}
	}
	return s
}

// Current returns the screen showing now.
func (c *Controller) Current() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SignedIn is called by the auth observer after the profile loads. A
// sign-in while on a public screen moves to the map; otherwise the current
// screen stays.
func (c *Controller) SignedIn() Screen {
	c.mu.Lock()
	onPublic := publicScreens[c.current]
	c.mu.Unlock()
	if onPublic {
		return c.Show(ScreenMap)
	}
	return c.Current()
}

// SignedOut clears the session and returns to onboarding. Used both by the
// auth observer and by an explicit logout.
func (c *Controller) SignedOut() Screen {
	c.session.Reset()
	return c.Show(ScreenOnboarding)
}
