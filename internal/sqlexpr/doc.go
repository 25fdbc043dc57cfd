// Package sqlexpr walks predicate trees and renders them as SQL text.
//
// The Visitor is dialect-agnostic. Dialect plugins embed it, register
// themselves as its Handler, and override binary, constant and column
// method rendering while falling back to the generic implementations for
// everything they do not special-case.
//
// Every visit returns a Result: either a rendered fragment that is final
// SQL and never re-quoted, or a raw value that the caller still has to
// quote.
package sqlexpr
