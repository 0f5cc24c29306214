package session

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidCaptcha  = errors.New("invalid captcha")
)

type Captcha struct {
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Session struct {
	ID        string             `json:"id"`
	Captchas  map[string]Captcha `json:"captchas"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`

	// IsNew is set for sessions that have not been loaded from a store.
	IsNew bool `json:"-"`
}

func (s *Session) Clone() *Session {
	cp := *s
	cp.Captchas = make(map[string]Captcha, len(s.Captchas))
	for k, v := range s.Captchas {
		cp.Captchas[k] = v
	}
	return &cp
}

// PutCaptcha stores code under token, replacing any earlier entry for the
// same token. Expired entries are dropped first; if the session still holds
// max entries the oldest one is evicted.
func (s *Session) PutCaptcha(token, code string, now time.Time, ttl time.Duration, max int) {
	if s.Captchas == nil {
		s.Captchas = make(map[string]Captcha)
	}
	s.PruneCaptchas(now)
	delete(s.Captchas, token)

	for max > 0 && len(s.Captchas) >= max {
		oldest := ""
		for k, c := range s.Captchas {
			if oldest == "" || c.IssuedAt.Before(s.Captchas[oldest].IssuedAt) {
				oldest = k
			}
		}
		delete(s.Captchas, oldest)
	}

	s.Captchas[token] = Captcha{
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// TakeCaptcha checks code against the entry for token and removes the entry.
// Missing, expired and mismatched entries all return ErrInvalidCaptcha.
func (s *Session) TakeCaptcha(token, code string, now time.Time) error {
	c, ok := s.Captchas[token]
	if !ok {
		return ErrInvalidCaptcha
	}
	delete(s.Captchas, token)

	if now.After(c.ExpiresAt) || c.Code == "" || c.Code != code {
		return ErrInvalidCaptcha
	}
	return nil
}

func (s *Session) PruneCaptchas(now time.Time) int {
	removed := 0
	for k, c := range s.Captchas {
		if now.After(c.ExpiresAt) {
			delete(s.Captchas, k)
			removed++
		}
	}
	return removed
}
