package captcha

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefault(t *testing.T) {
	g := NewGenerator(DefaultOptions())

	c, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, c.Text, 4)
	for _, r := range c.Text {
		assert.True(t, r >= '0' && r <= '9', "unexpected rune %q", r)
	}

	body := string(c.SVG)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "fill:#cc9966")
	assert.Equal(t, DefaultNoise, strings.Count(body, "<path"))
	for _, r := range c.Text {
		assert.Contains(t, body, ">"+string(r)+"<")
	}
}

func TestGenerateIsWellFormedXML(t *testing.T) {
	c, err := NewGenerator(Options{Charset: "<&>"}).Generate()
	require.NoError(t, err)

	dec := xml.NewDecoder(strings.NewReader(string(c.SVG)))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestGenerateZeroValueOptions(t *testing.T) {
	c, err := NewGenerator(Options{}).Generate()
	require.NoError(t, err)
	assert.Len(t, c.Text, DefaultSize)
}

func TestGenerateCustomCharset(t *testing.T) {
	c, err := NewGenerator(Options{Size: 6, Charset: "+="}).Generate()
	require.NoError(t, err)
	assert.Len(t, c.Text, 6)
	assert.Empty(t, strings.Trim(c.Text, "+="))
}

func TestGenerateVaries(t *testing.T) {
	g := NewGenerator(Options{Size: 8})
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		c, err := g.Generate()
		require.NoError(t, err)
		seen[c.Text] = true
	}
	assert.Greater(t, len(seen), 1)
}
