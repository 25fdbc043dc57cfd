package firebird

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/exprsql/internal/dialect"
	"github.com/roach88/exprsql/internal/expr"
	"github.com/roach88/exprsql/internal/ir"
)

// openPeople returns an in-memory database whose people table stores
// booleans as 1/0 and enums by member name, the way Firebird tables do.
func openPeople(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE people (
			Name     TEXT NOT NULL,
			Nick     TEXT,
			Age      INTEGER NOT NULL,
			IsActive INTEGER NOT NULL,
			Status   TEXT NOT NULL
		);
		INSERT INTO people VALUES
			('Ann', '  annie ', 30, 1, 'Active'),
			('Bob', NULL,       17, 1, 'Pending'),
			('Cid', 'cid',      45, 0, 'Active'),
			('Dee', NULL,        5, 0, 'Pending');
	`)
	require.NoError(t, err)
	return db
}

func queryNames(t *testing.T, db *sql.DB, where string) []string {
	t.Helper()

	rows, err := db.Query("SELECT Name FROM people WHERE " + where + " ORDER BY Name")
	require.NoError(t, err, where)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

// TestCompiler_ExecutesOnSQLite runs emitted predicates against a real
// engine. Only syntax shared by Firebird and SQLite is exercised.
func TestCompiler_ExecutesOnSQLite(t *testing.T) {
	db := openPeople(t)
	c := New(dialect.Firebird)

	active := expr.Col(x, "IsActive", ir.BoolType)
	nick := expr.Col(x, "Nick", ir.StringType)

	tests := []struct {
		name     string
		input    expr.Expr
		expected []string
	}{
		{"boolean column and comparison", expr.And(active, gt(age, lit(18))), []string{"Ann"}},
		{"is null", expr.Eq(nick, expr.Null()), []string{"Bob", "Dee"}},
		{"is not null", ne(nick, expr.Null()), []string{"Ann", "Cid"}},
		{"trim", expr.Eq(expr.Call(nick, expr.MethodTrim), lit("annie")), []string{"Ann"}},
		{"enum member", expr.Eq(state, lit(1)), []string{"Ann", "Cid"}},
		{"true sentinel", expr.And(lit(true), active), []string{"Ann", "Bob"}},
		{"false sentinel", expr.Or(active, lit(false)), []string{"Ann", "Bob"}},
		{"column equals false", expr.Eq(active, lit(false)), []string{"Cid", "Dee"}},
		{"coalesce", expr.Eq(expr.Bin(expr.OpCoalesce, nick, lit("none")), lit("none")), []string{"Bob", "Dee"}},
		{"folded operand", expr.And(lt(lit(1), lit(2)), gt(age, lit(40))), []string{"Cid"}},
		{"negated column", expr.Not(active), []string{"Cid", "Dee"}},
		{"starts with", expr.Call(name, expr.MethodStartsWith, lit("A")), []string{"Ann"}},
		{"mixed", expr.Or(lt(age, lit(10)), expr.Eq(expr.Call(name, expr.MethodToUpper), lit("CID"))), []string{"Cid", "Dee"}},
		{"constant true", gt(lit(2), lit(1)), []string{"Ann", "Bob", "Cid", "Dee"}},
		{"constant false", expr.And(lit(false), active), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, err := c.Compile(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, queryNames(t, db, where), where)
		})
	}
}
