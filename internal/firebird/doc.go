// Package firebird renders predicate trees for Firebird.
//
// Firebird has no boolean type, so boolean columns and literals are
// written as comparisons: a bare boolean column under AND/OR becomes
// Flag=1 and a boolean literal becomes (1=1) or (1=0). Comparisons of
// those sentinels against true or false collapse back to the bare literal.
//
// Example:
//
//	c := firebird.New(dialect.Firebird)
//	sql, err := c.Compile(tree) // (IsActive=1 AND (Age > 5))
package firebird
