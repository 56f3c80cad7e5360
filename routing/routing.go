// Package routing defines the {account, site, space} scope threaded through
// every folder/item operation. There is no authentication (Non-goal); a
// routing Scope only partitions storage, it never grants or denies access.
package routing

import "strings"

// Scope is the routing triple that namespaces a folder lookup or KV
// sub-tree name. The zero value is the "private" scope (account home, no
// site/space).
type Scope struct {
	Account string
	Site    string
	Space   string
}

// Key renders the scope into the path-like prefix used to namespace
// sub-tree names, matching §6's on-disk layout:
// `<home>/{private|sites/<site>/spaces/<space>}/...`.
func (s Scope) Key() string {
	if s.Site == "" {
		return "private/" + s.Account
	}
	var b strings.Builder
	b.WriteString(s.Account)
	b.WriteString("/sites/")
	b.WriteString(s.Site)
	if s.Space != "" {
		b.WriteString("/spaces/")
		b.WriteString(s.Space)
	}
	return b.String()
}

func (s Scope) String() string { return s.Key() }
