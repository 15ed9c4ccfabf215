// Package sqlgen renders SQL text for the operator to run by hand. Nothing here
// opens a connection or executes a statement.
package sqlgen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

var (
	ErrMissingIdentifier = errors.New("identifier or identifier part is empty")
	ErrInvalidLiteral    = errors.New("literal contains a NUL byte")
)

// plainIdentifier matches names PostgreSQL accepts unquoted without case folding
var plainIdentifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Update assigns a password hash to the row whose KeyColumn equals KeyValue
type Update struct {
	Table     string
	Column    string
	KeyColumn string
	KeyValue  string
	Hash      string
}

// Validate checks that the statement can be rendered safely
func (u Update) Validate() error {
	idents := []struct {
		name  string
		value string
	}{
		{"table", u.Table},
		{"column", u.Column},
		{"key column", u.KeyColumn},
	}
	for _, ident := range idents {
		for _, part := range strings.Split(ident.value, ".") {
			if part == "" {
				return fmt.Errorf("%s %q: %w", ident.name, ident.value, ErrMissingIdentifier)
			}
		}
	}
	if strings.ContainsRune(u.Hash, 0) || strings.ContainsRune(u.KeyValue, 0) {
		return ErrInvalidLiteral
	}
	return nil
}

// String renders the statement, e.g.
//
//	UPDATE users SET password = '$2a$10$...' WHERE username = 'admin';
func (u Update) String() string {
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s;",
		QuoteIdentifier(u.Table),
		QuoteIdentifier(u.Column),
		QuoteLiteral(u.Hash),
		QuoteIdentifier(u.KeyColumn),
		QuoteLiteral(u.KeyValue),
	)
}

// QuoteIdentifier leaves plain lower-case names bare and quotes anything else.
// A dotted name is treated as schema-qualified.
func QuoteIdentifier(name string) string {
	parts := strings.Split(name, ".")
	plain := true
	for _, p := range parts {
		if !plainIdentifier.MatchString(p) {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return pgx.Identifier(parts).Sanitize()
}

// QuoteLiteral wraps s in single quotes, doubling any embedded quote
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
