// Package uri resolves content addresses against a fixed, ordered list of
// templates. A Matcher is built once and never modified afterwards.
package uri

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// Kind identifies which template an address matched.
type Kind int

// Address kinds. NoMatch is the zero value.
const (
	NoMatch Kind = iota
	Pets         // the whole collection
	PetID        // a single pet by id
)

// String returns a short name for k, used in log lines.
func (k Kind) String() string {
	switch k {
	case Pets:
		return "pets"
	case PetID:
		return "pet_id"
	default:
		return "no_match"
	}
}

// Template segment wildcards.
const (
	wildNumber = "#" // a non-negative decimal integer
	wildAny    = "*" // any single non-empty segment
)

// Rule pairs an address template with the kind it resolves to.
type Rule struct {
	Template string
	Kind     Kind
}

// compiledRule is a Rule split into the parts Match compares.
type compiledRule struct {
	scheme    string
	authority string
	segments  []string
	kind      Kind
}

// Matcher checks addresses against its rules in registration order.
type Matcher struct {
	rules []compiledRule
}

// ErrBadTemplate reports a rule whose template cannot be compiled.
var ErrBadTemplate = errors.New("bad address template")

// NewMatcher compiles rules in the order given. Every template must be an
// absolute address of the form scheme://authority/segment[/segment...].
func NewMatcher(rules ...Rule) (*Matcher, error) {
	m := &Matcher{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr, err := compile(r)
		if err != nil {
			return nil, err
		}
		m.rules = append(m.rules, cr)
	}
	return m, nil
}

// MustNewMatcher is NewMatcher for templates fixed at build time. It panics
// when a template does not compile.
func MustNewMatcher(rules ...Rule) *Matcher {
	m, err := NewMatcher(rules...)
	if err != nil {
		panic(err)
	}
	return m
}

// DefaultMatcher returns the matcher for the pets contract: the collection
// address and the collection address followed by an id.
func DefaultMatcher() *Matcher {
	return MustNewMatcher(
		Rule{Template: types.ContentURI, Kind: Pets},
		Rule{Template: types.ItemTemplate, Kind: PetID},
	)
}

// compile splits a template by hand. url.Parse would read "#" as the start
// of a fragment, so templates never go through it.
func compile(r Rule) (compiledRule, error) {
	bad := func() (compiledRule, error) {
		return compiledRule{}, fmt.Errorf("%w %q", ErrBadTemplate, r.Template)
	}
	scheme, rest, ok := strings.Cut(r.Template, "://")
	if !ok || scheme == "" {
		return bad()
	}
	authority, path, ok := strings.Cut(rest, "/")
	if !ok || authority == "" || strings.ContainsAny(authority, "@?#") {
		return bad()
	}
	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if seg == "" || strings.ContainsAny(seg, "?%") {
			return bad()
		}
	}
	return compiledRule{
		scheme:    strings.ToLower(scheme),
		authority: authority,
		segments:  segments,
		kind:      r.Kind,
	}, nil
}

// Match returns the kind of the first rule that address satisfies and, for
// templates containing "#", the value of the last numeric segment. It returns
// NoMatch when no rule applies.
func (m *Matcher) Match(address string) (Kind, int64) {
	scheme, authority, segments, ok := split(address)
	if !ok {
		return NoMatch, 0
	}
	for _, r := range m.rules {
		if r.scheme != scheme || r.authority != authority || len(r.segments) != len(segments) {
			continue
		}
		id, ok := matchSegments(r.segments, segments)
		if ok {
			return r.kind, id
		}
	}
	return NoMatch, 0
}

func matchSegments(pattern, segments []string) (int64, bool) {
	var id int64
	for i, p := range pattern {
		seg := segments[i]
		switch p {
		case wildNumber:
			n, ok := parseNumber(seg)
			if !ok {
				return 0, false
			}
			id = n
		case wildAny:
		default:
			if p != seg {
				return 0, false
			}
		}
	}
	return id, true
}

// parseNumber accepts ASCII digits only: no sign, no spaces, no overflow.
func parseNumber(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// split breaks an incoming absolute address into scheme, authority, and path segments.
// Addresses with user info, a query, a fragment, escaped characters, or empty
// path segments are rejected.
func split(address string) (string, string, []string, bool) {
	u, err := url.Parse(address)
	if err != nil {
		return "", "", nil, false
	}
	if u.Scheme == "" || u.Host == "" || u.Opaque != "" || u.User != nil {
		return "", "", nil, false
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" || u.RawPath != "" {
		return "", "", nil, false
	}
	if !strings.HasPrefix(u.Path, "/") {
		return "", "", nil, false
	}
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	for _, s := range segments {
		if s == "" {
			return "", "", nil, false
		}
	}
	return u.Scheme, u.Host, segments, true
}
