package signer

// Rule decides whether a header takes part in signing.
type Rule interface {
	IsValid(value string) bool
}

// Rules is a slice of Rule; a value is valid when any rule accepts it.
type Rules []Rule

// IsValid returns true if any rule in the slice validates the value.
func (r Rules) IsValid(value string) bool {
	for _, rule := range r {
		if rule.IsValid(value) {
			return true
		}
	}
	return false
}

// MapRule matches values by exact (canonical-case) name.
type MapRule map[string]struct{}

// IsValid returns true if the value exists in the map.
func (m MapRule) IsValid(value string) bool {
	_, ok := m[value]
	return ok
}

// ExcludeList inverts the inner rule.
type ExcludeList struct {
	Rule
}

// IsValid returns true if the value does NOT match the inner rule.
func (e ExcludeList) IsValid(value string) bool {
	return !e.Rule.IsValid(value)
}

// IgnoredHeaders are hop-by-hop and client-telemetry headers left out of
// the signature. They still travel on the outgoing request; intermediaries
// rewrite them freely, so signing them would break verification.
var IgnoredHeaders = Rules{
	ExcludeList{
		MapRule{
			"Connection":      struct{}{},
			"Expect":          struct{}{},
			"User-Agent":      struct{}{},
			"X-Amzn-Trace-Id": struct{}{},
		},
	},
}
