package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCookieName  = "sid"
	DefaultTTL         = 24 * time.Hour
	DefaultCaptchaTTL  = 5 * time.Minute
	DefaultMaxCaptchas = 16
)

type Config struct {
	CookieName      string        `mapstructure:"cookie_name"`
	Secure          bool          `mapstructure:"secure"`
	TTL             time.Duration `mapstructure:"ttl"`
	CaptchaTTL      time.Duration `mapstructure:"captcha_ttl"`
	MaxCaptchas     int           `mapstructure:"max_captchas"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

func (c Config) withDefaults() Config {
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.CaptchaTTL <= 0 {
		c.CaptchaTTL = DefaultCaptchaTTL
	}
	if c.MaxCaptchas <= 0 {
		c.MaxCaptchas = DefaultMaxCaptchas
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Minute
	}
	return c
}

// Manager loads and saves sessions and applies the CAPTCHA policy.
type Manager struct {
	store  Store
	config Config
	now    func() time.Time
}

func NewManager(store Store, config Config) *Manager {
	return &Manager{
		store:  store,
		config: config.withDefaults(),
		now:    time.Now,
	}
}

func (m *Manager) Config() Config {
	return m.config
}

// Load returns the stored session for id, or a fresh session when id is
// empty, unknown or expired.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id != "" {
		s, err := m.store.Get(ctx, id)
		if err == nil {
			if s.Captchas == nil {
				s.Captchas = make(map[string]Captcha)
			}
			return s, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("load session: %w", err)
		}
	}

	now := m.now()
	return &Session{
		ID:        uuid.NewString(),
		Captchas:  make(map[string]Captcha),
		CreatedAt: now,
		ExpiresAt: now.Add(m.config.TTL),
		IsNew:     true,
	}, nil
}

// Save persists s and extends its expiry.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	s.ExpiresAt = m.now().Add(m.config.TTL)
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.IsNew = false
	return nil
}

func (m *Manager) IssueCaptcha(s *Session, token, code string) {
	s.PutCaptcha(token, code, m.now(), m.config.CaptchaTTL, m.config.MaxCaptchas)
}

func (m *Manager) VerifyCaptcha(s *Session, token, code string) error {
	return s.TakeCaptcha(token, code, m.now())
}
