// Package response defines the canonical Response value returned to the
// transport layer, constructors for common bodies and redirects, the
// normalization of handler return shapes, and structured HTTP errors.
package response
