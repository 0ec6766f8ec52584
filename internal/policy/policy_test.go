package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func teamRules(createdBy, leader string, moderators, members []string, allowMembers bool) []Rule {
	return []Rule{
		IsUser("created_by", createdBy),
		IsUser("leader", leader),
		InSet("moderator", moderators, true),
		InSet("member", members, allowMembers),
		HasType("admin", UserTypeAdmin),
	}
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	// The creator is also a moderator; the first rule must report the match.
	rules := teamRules("u1", "u2", []string{"u1", "u3"}, nil, false)

	d := Evaluate(Actor{ID: "u1", Type: UserTypeUser}, rules...)

	assert.True(t, d.Allowed)
	assert.Equal(t, "created_by", d.Rule)
}

func TestEvaluate_RuleOrder(t *testing.T) {
	rules := teamRules("creator", "leader", []string{"mod"}, []string{"member"}, true)

	tests := []struct {
		name     string
		actor    Actor
		allowed  bool
		expected string
	}{
		{"creator", Actor{ID: "creator", Type: UserTypeUser}, true, "created_by"},
		{"leader", Actor{ID: "leader", Type: UserTypeUser}, true, "leader"},
		{"moderator", Actor{ID: "mod", Type: UserTypeUser}, true, "moderator"},
		{"member", Actor{ID: "member", Type: UserTypeUser}, true, "member"},
		{"admin fallback", Actor{ID: "outsider", Type: UserTypeAdmin}, true, "admin"},
		{"stranger denied", Actor{ID: "outsider", Type: UserTypeUser}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.actor, rules...)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.expected, d.Rule)
		})
	}
}

func TestEvaluate_MemberRuleToggled(t *testing.T) {
	members := []string{"member"}

	allowed := Evaluate(Actor{ID: "member", Type: UserTypeUser},
		teamRules("creator", "leader", nil, members, true)...)
	assert.True(t, allowed.Allowed)

	denied := Evaluate(Actor{ID: "member", Type: UserTypeUser},
		teamRules("creator", "leader", nil, members, false)...)
	assert.False(t, denied.Allowed)
}

func TestEvaluate_NoRules(t *testing.T) {
	d := Evaluate(Actor{ID: "anyone", Type: UserTypeAdmin})
	assert.False(t, d.Allowed)
	assert.Empty(t, d.Rule)
}

func TestIsUser_EmptyIDNeverMatches(t *testing.T) {
	d := Evaluate(Actor{ID: "", Type: UserTypeUser}, IsUser("assigned_to", ""))
	assert.False(t, d.Allowed)
}
