package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		memberships []bool
		want        Action
	}{
		{name: "no sides", want: Add},
		{name: "single side absent", memberships: []bool{false}, want: Add},
		{name: "single side present", memberships: []bool{true}, want: Remove},
		{name: "both present", memberships: []bool{true, true}, want: Remove},
		{name: "out of sync following only", memberships: []bool{true, false}, want: Add},
		{name: "out of sync follower only", memberships: []bool{false, true}, want: Add},
		{name: "both absent", memberships: []bool{false, false}, want: Add},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.memberships...))
		})
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	set := Insert(nil, "a")
	set = Insert(set, "a")
	set = Insert(set, "b")

	assert.Equal(t, []string{"a", "b"}, set)
}

func TestDeleteRemovesEveryOccurrence(t *testing.T) {
	set := Delete([]string{"a", "b", "a"}, "a")
	assert.Equal(t, []string{"b"}, set)

	assert.Empty(t, Delete(nil, "a"))
}

func TestApplyTwiceRestoresSet(t *testing.T) {
	original := []string{"x"}

	first := Apply(Decide(Contains(original, "u")), clone(original), "u")
	assert.Equal(t, []string{"x", "u"}, first)

	second := Apply(Decide(Contains(first, "u")), first, "u")
	assert.Equal(t, original, second)
}

func TestOutOfSyncPairRecovers(t *testing.T) {
	following := []string{"creator"}
	var followers []string

	action := Decide(Contains(following, "creator"), Contains(followers, "user"))
	assert.Equal(t, Add, action)

	following = Apply(action, following, "creator")
	followers = Apply(action, followers, "user")
	assert.Equal(t, []string{"creator"}, following)
	assert.Equal(t, []string{"user"}, followers)

	action = Decide(Contains(following, "creator"), Contains(followers, "user"))
	assert.Equal(t, Remove, action)
	assert.Empty(t, Apply(action, following, "creator"))
	assert.Empty(t, Apply(action, followers, "user"))
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
