package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndTakeCaptcha(t *testing.T) {
	now := time.Now()
	s := &Session{}

	s.PutCaptcha("abc", "1234", now, time.Minute, 4)
	require.Len(t, s.Captchas, 1)

	assert.NoError(t, s.TakeCaptcha("abc", "1234", now))
	assert.Empty(t, s.Captchas)
}

func TestTakeCaptchaIsSingleUse(t *testing.T) {
	now := time.Now()
	s := &Session{}
	s.PutCaptcha("abc", "1234", now, time.Minute, 4)

	require.NoError(t, s.TakeCaptcha("abc", "1234", now))
	assert.ErrorIs(t, s.TakeCaptcha("abc", "1234", now), ErrInvalidCaptcha)
}

func TestTakeCaptchaMismatch(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{name: "wrong code", token: "abc", code: "4321"},
		{name: "empty code", token: "abc", code: ""},
		{name: "unknown token", token: "xyz", code: "1234"},
		{name: "padded code", token: "abc", code: " 1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{}
			s.PutCaptcha("abc", "1234", now, time.Minute, 4)
			assert.ErrorIs(t, s.TakeCaptcha(tt.token, tt.code, now), ErrInvalidCaptcha)
		})
	}
}

func TestTakeCaptchaCaseSensitive(t *testing.T) {
	now := time.Now()
	s := &Session{}
	s.PutCaptcha("abc", "+=a1", now, time.Minute, 4)

	assert.ErrorIs(t, s.TakeCaptcha("abc", "+=A1", now), ErrInvalidCaptcha)
}

func TestTakeCaptchaExpired(t *testing.T) {
	now := time.Now()
	s := &Session{}
	s.PutCaptcha("abc", "1234", now, time.Minute, 4)

	assert.ErrorIs(t, s.TakeCaptcha("abc", "1234", now.Add(2*time.Minute)), ErrInvalidCaptcha)
}

func TestPutCaptchaOverwritesToken(t *testing.T) {
	now := time.Now()
	s := &Session{}
	s.PutCaptcha("abc", "1111", now, time.Minute, 4)
	s.PutCaptcha("abc", "2222", now.Add(time.Second), time.Minute, 4)

	require.Len(t, s.Captchas, 1)
	assert.ErrorIs(t, s.Clone().TakeCaptcha("abc", "1111", now), ErrInvalidCaptcha)
	assert.NoError(t, s.TakeCaptcha("abc", "2222", now))
}

func TestPutCaptchaEvictsOldest(t *testing.T) {
	now := time.Now()
	s := &Session{}
	for i := 0; i < 5; i++ {
		s.PutCaptcha(fmt.Sprintf("t%d", i), "1234", now.Add(time.Duration(i)*time.Second), time.Minute, 3)
	}

	assert.Len(t, s.Captchas, 3)
	assert.NotContains(t, s.Captchas, "t0")
	assert.NotContains(t, s.Captchas, "t1")
	assert.Contains(t, s.Captchas, "t4")
}

func TestPutCaptchaPrunesExpired(t *testing.T) {
	now := time.Now()
	s := &Session{}
	s.PutCaptcha("old", "1234", now, time.Minute, 4)
	s.PutCaptcha("new", "5678", now.Add(2*time.Minute), time.Minute, 4)

	assert.NotContains(t, s.Captchas, "old")
	assert.Contains(t, s.Captchas, "new")
}

func TestCloneIsIndependent(t *testing.T) {
	s := &Session{ID: "s1"}
	s.PutCaptcha("abc", "1234", time.Now(), time.Minute, 4)

	cp := s.Clone()
	delete(cp.Captchas, "abc")

	assert.Contains(t, s.Captchas, "abc")
}
