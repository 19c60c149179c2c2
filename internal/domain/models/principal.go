package models

import "sort"

// Authority is a role name granted to a principal. Authorization downstream
// is plain set membership on these values.
type Authority string

// Principal is the verified identity handed to the rest of the system after
// successful verification. It is a value object: reconstructed fresh per
// request, passed explicitly, never read from ambient state.
type Principal struct {
	subject     string
	authorities map[Authority]struct{}
}

// NewPrincipal builds a principal from a subject id and its role names.
func NewPrincipal(subject string, authorities []string) *Principal {
	set := make(map[Authority]struct{}, len(authorities))
	for _, a := range authorities {
		if a != "" {
			set[Authority(a)] = struct{}{}
		}
	}
	return &Principal{subject: subject, authorities: set}
}

// Subject returns the principal identifier.
func (p *Principal) Subject() string { return p.subject }

// HasAuthority reports whether the principal carries the given role.
func (p *Principal) HasAuthority(a Authority) bool {
	_, ok := p.authorities[a]
	return ok
}

// Authorities returns the role names in sorted order.
func (p *Principal) Authorities() []string {
	out := make([]string, 0, len(p.authorities))
	for a := range p.authorities {
		out = append(out, string(a))
	}
	sort.Strings(out)
	return out
}
