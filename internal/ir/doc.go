// Package ir provides the literal value and type representation shared by
// every layer of exprsql.
//
// This package contains value and type definitions only. All other internal
// packages import ir; ir imports nothing internal. This keeps ir the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - IRValue is sealed; dialects switch over it exhaustively
//   - Floats are legal literals but never appear in canonical JSON
//   - Enum values are carried as IRInt; EnumType decides how they are stored
//   - Cache keys are derived from canonical JSON only (see PredicateHash)
package ir
