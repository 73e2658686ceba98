// Package session keeps the logged-in user id and flash messages in a
// server-side session referenced by the session_id cookie.
package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	// CookieName names the session cookie.
	CookieName = "session_id"

	userKey  = "curr_user"
	flashKey = "_flashes"
)

// Config configures a Manager. A nil Storage keeps sessions in memory.
type Config struct {
	Storage fiber.Storage
	TTL     time.Duration
	Secure  bool
}

// Manager reads and writes session state for a request. Every mutating
// method loads the session, changes it and saves it in one step, because a
// fiber session cannot be used after Save.
type Manager struct {
	store *session.Store
}

func NewManager(cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Manager{store: session.New(session.Config{
		Storage:        cfg.Storage,
		Expiration:     cfg.TTL,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})}
}

// UserID returns the logged-in user id, if any.
func (m *Manager) UserID(c *fiber.Ctx) (uint, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return 0, false, err
	}
	id, ok := sess.Get(userKey).(uint)
	return id, ok && id != 0, nil
}

// Login stores userID under a fresh session id, then queues flash when it
// is not empty.
func (m *Manager) Login(c *fiber.Ctx, userID uint, flash string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(userKey, userID)
	if flash != "" {
		if err := pushFlash(sess, flash); err != nil {
			return err
		}
	}
	return sess.Save()
}

// Logout forgets the user and rotates the session id. Pending flashes
// survive so the flash passed here is shown after the redirect.
func (m *Manager) Logout(c *fiber.Ctx, flash string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Delete(userKey)
	if flash != "" {
		if err := pushFlash(sess, flash); err != nil {
			return err
		}
	}
	return sess.Save()
}

// AddFlash queues a message for the next rendered page.
func (m *Manager) AddFlash(c *fiber.Ctx, msg string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := pushFlash(sess, msg); err != nil {
		return err
	}
	return sess.Save()
}

// PopFlashes returns and clears the queued messages.
func (m *Manager) PopFlashes(c *fiber.Ctx) ([]string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, err
	}
	flashes, err := readFlashes(sess)
	if err != nil || len(flashes) == 0 {
		return nil, err
	}
	sess.Delete(flashKey)
	if err := sess.Save(); err != nil {
		return nil, err
	}
	return flashes, nil
}

func readFlashes(sess *session.Session) ([]string, error) {
	raw, ok := sess.Get(flashKey).(string)
	if !ok || raw == "" {
		return nil, nil
	}
	var flashes []string
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		return nil, errors.New("corrupt flash payload")
	}
	return flashes, nil
}

func pushFlash(sess *session.Session, msg string) error {
	flashes, err := readFlashes(sess)
	if err != nil {
		flashes = nil
	}
	flashes = append(flashes, msg)
	raw, err := json.Marshal(flashes)
	if err != nil {
		return err
	}
	sess.Set(flashKey, string(raw))
	return nil
}
