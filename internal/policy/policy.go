// Package policy evaluates ordered permission rule lists shared by the
// team and todo stores. The first matching rule wins; if no rule matches
// the decision is a deny.
package policy

// UserType mirrors the user store's account type.
type UserType string

const (
	UserTypeUser  UserType = "USER"
	UserTypeAdmin UserType = "ADMIN"
)

// Actor is the authenticated principal a decision is evaluated for.
type Actor struct {
	ID   string
	Type UserType
}

// Rule is one entry of an ordered rule list.
type Rule struct {
	Name   string
	Allows func(a Actor) bool
}

// Decision is the outcome of an evaluation. Rule names the matched rule,
// empty when nothing matched.
type Decision struct {
	Allowed bool
	Rule    string
}

// Evaluate walks rules in order and returns the first match. No match
// means deny.
func Evaluate(a Actor, rules ...Rule) Decision {
	for _, r := range rules {
		if r.Allows(a) {
			return Decision{Allowed: true, Rule: r.Name}
		}
	}
	return Decision{}
}

// IsUser matches when the actor is the given user.
func IsUser(name, id string) Rule {
	return Rule{
		Name: name,
		Allows: func(a Actor) bool {
			return id != "" && a.ID == id
		},
	}
}

// InSet matches when the actor's id is in the given set. When enabled is
// false the rule never matches, which keeps the rule's position in the
// list while toggling it per operation.
func InSet(name string, ids []string, enabled bool) Rule {
	return Rule{
		Name: name,
		Allows: func(a Actor) bool {
			if !enabled {
				return false
			}
			for _, id := range ids {
				if a.ID == id {
					return true
				}
			}
			return false
		},
	}
}

// HasType matches when the actor has the given account type. Used as the
// trailing admin fallback.
func HasType(name string, t UserType) Rule {
	return Rule{
		Name: name,
		Allows: func(a Actor) bool {
			return a.Type == t
		},
	}
}
