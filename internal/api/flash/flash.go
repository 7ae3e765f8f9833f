// Package flash implements one-shot notices carried across a redirect. Messages live in a
// short-lived fiber session referenced by the "flash" cookie.
package flash

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	cookieName  = "flash"
	storeKey    = "flash_store"
	pendingKey  = "flash_pending"
	messagesKey = "messages"

	CategorySuccess = "success"
	CategoryInfo    = "info"
	CategoryDanger  = "danger"
)

// Message is a single notice.
type Message struct {
	Category string
	Text     string
}

// Config controls the flash cookie.
type Config struct {
	CookieSecure bool
	// Expiration bounds how long an unread message survives. Defaults to five minutes.
	Expiration time.Duration
	// Storage holds message payloads. Defaults to fiber's in-memory storage.
	Storage fiber.Storage
}

// New returns middleware exposing the flash store to Add, Redirect and Consume.
func New(cfg Config) fiber.Handler {
	if cfg.Expiration <= 0 {
		cfg.Expiration = 5 * time.Minute
	}
	store := session.New(session.Config{
		Expiration:     cfg.Expiration,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + cookieName,
		CookiePath:     "/",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	store.RegisterType([]Message{})

	return func(c *fiber.Ctx) error {
		c.Locals(storeKey, store)
		return c.Next()
	}
}

// Add queues a message for the next rendered page.
func Add(c *fiber.Ctx, category, text string) {
	pending := pendingMessages(c)
	c.Locals(pendingKey, append(pending, Message{Category: category, Text: text}))
}

// Redirect persists queued messages and redirects with 302. Without the middleware the
// messages are dropped.
func Redirect(c *fiber.Ctx, location string) error {
	pending := pendingMessages(c)
	c.Locals(pendingKey, nil)

	if store, ok := c.Locals(storeKey).(*session.Store); ok && len(pending) > 0 {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set(messagesKey, append(stored(sess), pending...))
		if err := sess.Save(); err != nil {
			return err
		}
	}
	return c.Redirect(location, fiber.StatusFound)
}

// Consume returns messages from the previous redirect followed by those queued in this
// request, and clears both.
func Consume(c *fiber.Ctx) []Message {
	pending := pendingMessages(c)
	c.Locals(pendingKey, nil)

	store, ok := c.Locals(storeKey).(*session.Store)
	if !ok || c.Cookies(cookieName) == "" {
		return pending
	}
	sess, err := store.Get(c)
	if err != nil {
		return pending
	}
	messages := append(stored(sess), pending...)
	_ = sess.Destroy()
	return messages
}

func stored(sess *session.Session) []Message {
	messages, _ := sess.Get(messagesKey).([]Message)
	return messages
}

func pendingMessages(c *fiber.Ctx) []Message {
	pending, _ := c.Locals(pendingKey).([]Message)
	return pending
}
