package app

import (
	"testing"

	"arboriza/backend/internal/domain/profile"
	"arboriza/backend/internal/domain/tree"
	"arboriza/backend/internal/plantnet"

	"github.com/stretchr/testify/assert"
)

func signedInSession() *Session {
	s := NewSession()
	s.SetUser(&profile.UserProfile{UID: "uid-1", Name: "Ana"})
	return s
}

func TestShowGuards(t *testing.T) {
	t.Run("protected screen without session lands on login", func(t *testing.T) {
		c := NewController(NewSession())
		got := c.Show(ScreenMap)
		assert.Equal(t, ScreenLogin, got)
		assert.Equal(t, ScreenLogin, c.Current())
	})

	t.Run("public screens need no session", func(t *testing.T) {
		c := NewController(NewSession())
		for _, s := range []Screen{ScreenOnboarding, ScreenLogin, ScreenSignup} {
			assert.Equal(t, s, c.Show(s))
		}
	})

	t.Run("result without pending plant falls back to map", func(t *testing.T) {
		c := NewController(signedInSession())
		assert.Equal(t, ScreenMap, c.Show(ScreenResult))
	})

	t.Run("result with pending plant shows", func(t *testing.T) {
		sess := signedInSession()
		sess.SetPendingPlant(&plantnet.Match{ScientificName: "Handroanthus albus"})
		c := NewController(sess)
		assert.Equal(t, ScreenResult, c.Show(ScreenResult))
	})

	t.Run("tree screens without an open tree fall back to map", func(t *testing.T) {
		c := NewController(signedInSession())
		assert.Equal(t, ScreenMap, c.Show(ScreenTreeProfile))
		assert.Equal(t, ScreenMap, c.Show(ScreenCare))
	})

	t.Run("unknown screen lands on map", func(t *testing.T) {
		c := NewController(signedInSession())
		assert.Equal(t, ScreenMap, c.Show(Screen("settings")))
	})

	t.Run("tree screens with an open tree show", func(t *testing.T) {
		sess := signedInSession()
		sess.SetCurrentTree(&tree.Tree{ID: "t1"})
		c := NewController(sess)
		assert.Equal(t, ScreenTreeProfile, c.Show(ScreenTreeProfile))
		assert.Equal(t, ScreenCare, c.Show(ScreenCare))
	})
}

func TestEntryHooksRerunOnReentry(t *testing.T) {
	c := NewController(signedInSession())
	calls := 0
	c.OnEnter(ScreenMap, func() { calls++ })

	c.Show(ScreenMap)
	c.Show(ScreenMap)
	c.Show(ScreenFeed)
	c.Show(ScreenMap)
	assert.Equal(t, 3, calls)
}

func TestFallbackRunsFallbackHooks(t *testing.T) {
	c := NewController(signedInSession())
	var fired []Screen
	c.OnEnter(ScreenMap, func() { fired = append(fired, ScreenMap) })
	c.OnEnter(ScreenResult, func() { fired = append(fired, ScreenResult) })

	c.Show(ScreenResult)
	assert.Equal(t, []Screen{ScreenMap}, fired)
}

func TestAuthTransitions(t *testing.T) {
	t.Run("sign-in on a public screen moves to map", func(t *testing.T) {
		sess := NewSession()
		c := NewController(sess)
		c.Show(ScreenLogin)

		sess.SetUser(&profile.UserProfile{UID: "uid-1"})
		assert.Equal(t, ScreenMap, c.SignedIn())
	})

	t.Run("sign-in elsewhere keeps the screen", func(t *testing.T) {
		sess := signedInSession()
		c := NewController(sess)
		c.Show(ScreenFeed)
		assert.Equal(t, ScreenFeed, c.SignedIn())
	})

	t.Run("sign-out clears session and shows onboarding", func(t *testing.T) {
		sess := signedInSession()
		sess.SetCurrentTree(&tree.Tree{ID: "t1"})
		sess.SetPendingPlant(&plantnet.Match{ScientificName: "x"})
		c := NewController(sess)
		c.Show(ScreenMap)

		assert.Equal(t, ScreenOnboarding, c.SignedOut())
		assert.False(t, sess.SignedIn())
		assert.Nil(t, sess.CurrentTree())
		assert.Nil(t, sess.PendingPlant())
	})
}
