package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_Defaults(t *testing.T) {
	s := Parse("")
	assert.True(t, s.On(Newsletter))
	assert.True(t, s.On(ContactForm))
	assert.True(t, s.On(LiveFeed))
	assert.Equal(t, []string{ContactForm, LiveFeed, Newsletter}, s.Names())
}

func TestParse_OverridesAndSkipsMalformed(t *testing.T) {
	s := Parse(" bad , Contact_Form = OFF ,live_feed=25%, beta=on,=on,empty= ")

	raw := s.Raw()
	assert.Equal(t, "off", raw[ContactForm])
	assert.Equal(t, "25%", raw[LiveFeed])
	assert.Equal(t, "on", raw["beta"])
	assert.Len(t, raw, 4)

	assert.False(t, s.On(ContactForm))
	assert.True(t, s.On("BETA"))
}

func TestEnabled(t *testing.T) {
	s := Parse("a=on,b=off,c=true,d=false,e=1,f=0,always=100%,never=0%,junk=maybe,badpct=x%")

	tests := []struct {
		flag string
		want bool
	}{
		{"a", true},
		{"b", false},
		{"c", true},
		{"d", false},
		{"e", true},
		{"f", false},
		{"always", true},
		{"never", false},
		{"junk", false},
		{"badpct", false},
		{"missing", false},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Enabled(tt.flag, 7))
		})
	}
}

func TestEnabled_Rollout(t *testing.T) {
	s := Parse("live_feed=30%")

	assert.False(t, s.On(LiveFeed), "anonymous callers are outside percentage rollouts")

	first := s.Enabled(LiveFeed, 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Enabled(LiveFeed, 42))
	}

	enabled := 0
	for id := uint(1); id <= 1000; id++ {
		if s.Enabled(LiveFeed, id) {
			enabled++
		}
	}
	assert.InDelta(t, 300, enabled, 80)
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.False(t, s.Enabled(Newsletter, 1))
	assert.Empty(t, s.Raw())
	assert.Empty(t, s.Snapshot(1))
}
