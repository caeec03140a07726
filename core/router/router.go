package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Route is an immutable registration in the route table. It ties a URL
// pattern to an endpoint identifier and the set of methods it serves.
type Route struct {
	Pattern     string
	Endpoint    string
	Scope       string
	AutoOptions bool

	methods   map[string]bool // allowed verbs, HEAD implied by GET
	declared  map[string]bool // conflict-relevant set: declared verbs + implied HEAD
	segments  []segment
	signature string
	score     []int
}

// Methods returns the sorted set of methods the route responds to,
// including implied HEAD and automatic OPTIONS.
func (r *Route) Methods() []string {
	out := make([]string, 0, len(r.methods)+1)
	for m := range r.methods {
		out = append(out, m)
	}
	if r.AutoOptions && !r.methods[http.MethodOptions] {
		out = append(out, http.MethodOptions)
	}
	sort.Strings(out)
	return out
}

// Params returns the placeholder names in pattern order.
func (r *Route) Params() []string {
	var keys []string
	for _, s := range r.segments {
		if s.kind == segParam {
			keys = append(keys, s.key)
		}
	}
	return keys
}

func (r *Route) allowsMethod(method string) bool {
	if r.methods[method] {
		return true
	}
	return method == http.MethodOptions && r.AutoOptions
}

// Match is a successful routing result: the winning route and the
// placeholder values extracted from the path.
type Match struct {
	Route  *Route
	Params map[string]string
}

// RouteOption customizes a single route registration.
type RouteOption func(*routeConfig)

type routeConfig struct {
	methods     []string
	autoOptions bool
	scope       string
}

// WithMethods sets the HTTP methods the route serves. Defaults to GET.
func WithMethods(methods ...string) RouteOption {
	return func(c *routeConfig) {
		c.methods = methods
	}
}

// WithoutAutoOptions disables the implicit OPTIONS handling for the route.
func WithoutAutoOptions() RouteOption {
	return func(c *routeConfig) {
		c.autoOptions = false
	}
}

// WithScope tags the route with a sub-application scope. Hooks and error
// handlers registered for that scope apply to requests it serves.
func WithScope(scope string) RouteOption {
	return func(c *routeConfig) {
		c.scope = scope
	}
}

var knownMethods = map[string]bool{
	http.MethodConnect: true,
	http.MethodDelete:  true,
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodPatch:   true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodTrace:   true,
}

// Table holds registered routes and resolves paths against them. It is
// immutable after application startup: Register is not safe to call
// concurrently with Match.
type Table struct {
	routes []*Route
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{}
}

// Register validates and inserts a route. GET implies HEAD, and OPTIONS is
// implied unless disabled via WithoutAutoOptions or declared explicitly.
// Two routes whose patterns normalize to the same shape may only coexist
// with disjoint method sets; anything else fails with ErrRouteConflict.
func (t *Table) Register(pattern, endpoint string, opts ...RouteOption) (*Route, error) {
	cfg := routeConfig{autoOptions: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	segments, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}

	if len(cfg.methods) == 0 {
		cfg.methods = []string{http.MethodGet}
	}

	declared := make(map[string]bool, len(cfg.methods)+1)
	for _, m := range cfg.methods {
		m = strings.ToUpper(m)
		if !knownMethods[m] {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, m)
		}
		declared[m] = true
	}
	if declared[http.MethodGet] {
		declared[http.MethodHead] = true
	}
	// An explicit OPTIONS registration takes over from the automatic one.
	if declared[http.MethodOptions] {
		cfg.autoOptions = false
	}

	route := &Route{
		Pattern:     pattern,
		Endpoint:    endpoint,
		Scope:       cfg.scope,
		AutoOptions: cfg.autoOptions,
		methods:     declared,
		declared:    declared,
		segments:    segments,
		signature:   signature(segments),
		score:       score(segments),
	}

	for _, existing := range t.routes {
		if existing.signature != route.signature {
			continue
		}
		for m := range route.declared {
			if existing.declared[m] {
				return nil, fmt.Errorf("%w: %q and %q both serve %s %s",
					ErrRouteConflict, existing.Pattern, pattern, m, route.signature)
			}
		}
	}

	t.insert(route)
	return route, nil
}

// insert keeps routes ordered by descending specificity, stable by
// registration order within ties.
func (t *Table) insert(route *Route) {
	pos := len(t.routes)
	for i, existing := range t.routes {
		if compareScore(existing.score, route.score) < 0 {
			pos = i
			break
		}
	}
	t.routes = append(t.routes, nil)
	copy(t.routes[pos+1:], t.routes[pos:])
	t.routes[pos] = route
}

// Match resolves a method and path to the most specific applicable route.
// Routes that declare the method explicitly win over a sibling that would
// only serve it through automatic OPTIONS. A path that matches only under
// other methods yields a *MethodNotAllowedError carrying the valid set;
// an unmatched path yields ErrNotFound.
func (t *Table) Match(method, path string) (*Match, error) {
	method = strings.ToUpper(method)

	var (
		auto        *Match
		pathMatched bool
		allowed     = make(map[string]bool)
	)
	for _, route := range t.routes {
		params, ok := matchPath(route.segments, path)
		if !ok {
			continue
		}
		if route.methods[method] {
			return &Match{Route: route, Params: params}, nil
		}
		if route.allowsMethod(method) && auto == nil {
			auto = &Match{Route: route, Params: params}
		}
		pathMatched = true
		for _, m := range route.Methods() {
			allowed[m] = true
		}
	}

	if auto != nil {
		return auto, nil
	}
	if pathMatched {
		return nil, &MethodNotAllowedError{Allow: sortedMethods(allowed)}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Allowed reports the union of methods valid for a path, for Allow headers
// and automatic OPTIONS responses.
func (t *Table) Allowed(path string) []string {
	allowed := make(map[string]bool)
	for _, route := range t.routes {
		if _, ok := matchPath(route.segments, path); ok {
			for _, m := range route.Methods() {
				allowed[m] = true
			}
		}
	}
	return sortedMethods(allowed)
}

// Routes returns the registered routes in match-precedence order.
func (t *Table) Routes() []*Route {
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}

func sortedMethods(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
