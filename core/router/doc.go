// Package router implements the route table: URL patterns with typed
// placeholders mapped to endpoint identifiers and method sets.
//
// Patterns consist of literal segments and {name} or {name:converter}
// placeholders. Converters: str (default, one non-empty segment), int,
// float, uuid, and path (non-empty remainder of the path, final segment
// only). A placeholder whose value fails its converter simply does not
// match, so the request falls through to less specific rules or 404.
//
// The table matches whatever path string it is given; the dispatcher
// hands it the decoded request path, so percent-encoded segments are
// routed by their decoded form and extracted values arrive decoded.
//
// Matching picks the most specific applicable rule: literal segments
// outrank typed placeholders, typed placeholders outrank plain ones, and
// path catch-alls come last. Ambiguous registrations (same normalized
// shape, overlapping methods) are rejected with ErrRouteConflict when the
// route is added, never resolved at match time.
package router
