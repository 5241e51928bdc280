package slug

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"  --Spaces--  ", "spaces"},
		{"Halal Deal!", "halal-deal"},
		{"50% off -- today only", "50-off-today-only"},
		{"already-a-slug", "already-a-slug"},
		{"Crème Brûlée", "cr-me-br-l-e"},
		{"!!!", ""},
		{"", ""},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMakeShape(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 500; i++ {
		title := faker.Sentence(faker.Number(1, 12)) + faker.Emoji() + faker.Phrase()
		s := Make(title)

		assert.Equal(t, strings.ToLower(s), s, "title %q", title)
		assert.NotContains(t, s, "--", "title %q", title)
		assert.False(t, strings.HasPrefix(s, "-"), "title %q", title)
		assert.False(t, strings.HasSuffix(s, "-"), "title %q", title)
		for _, r := range s {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			assert.True(t, ok, "unexpected %q in %q", r, s)
		}
		assert.Equal(t, s, Make(s), "not idempotent for %q", title)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("halal-deal"))
	assert.False(t, Valid("Halal Deal"))
	assert.False(t, Valid("-x"))
	assert.False(t, Valid(""))
}

func TestNumeric(t *testing.T) {
	assert.True(t, Numeric("2024"))
	assert.False(t, Numeric("2024-deals"))
	assert.False(t, Numeric(""))
	assert.False(t, Numeric(Make("Top 10!")))
}
