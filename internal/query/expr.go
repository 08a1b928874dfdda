// Package query implements the query engine: three input syntaxes —
// anchored regex, an XPath-like path selector, and a plain substring —
// compiled to a predicate over event names, then scanned across every
// zone of a database to produce a lazy, index-addressed result set.
//
// The parser here is deliberately small: the grammar is a single
// dispatch on the source string's shape, not a statement language, so
// there is no separate lexer/token-stream split — compile failures
// still surface as structured errors carrying the source text.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mvijayanand/tracing-framework/internal/errors"
)

// Syntax identifies which of the three grammars a compiled Expr uses.
type Syntax int

const (
	SyntaxSubstring Syntax = iota
	SyntaxPath
	SyntaxRegex
)

func (s Syntax) String() string {
	switch s {
	case SyntaxRegex:
		return "regex"
	case SyntaxPath:
		return "path"
	default:
		return "substring"
	}
}

// Expr is a compiled query expression: a predicate over event names
// plus the source text used for display.
type Expr struct {
	Source string
	Syntax Syntax

	re   *regexp.Regexp
	path string
}

// String returns the original source text, unchanged — the display
// form of the compiled expression.
func (e *Expr) String() string { return e.Source }

// CompileError reports a query that failed to compile. Compilation
// never mutates engine state; the message is all the caller gets.
type CompileError struct {
	Source  string
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("query: %s: %s", e.Message, e.Source)
}

// Compile parses src and returns the resulting predicate. Dispatch is
// on the source string's shape:
//
//   - a string both starting and ending with '/' (and at least two
//     characters) is a regex, its body taken literally — not
//     implicitly anchored with ^$;
//   - otherwise, a string containing '/' is an XPath-like path
//     selector, "descendant-or-self::name" with '/' as the path
//     separator;
//   - anything else is a case-sensitive substring match.
func Compile(src string) (*Expr, error) {
	if isRegexLiteral(src) {
		body := src[1 : len(src)-1]
		re, err := regexp.Compile(body)
		if err != nil {
			return nil, errors.NewQueryError(errors.CodeCompileError, fmt.Sprintf("query: bad regex %q: %v", body, err))
		}
		return &Expr{Source: src, Syntax: SyntaxRegex, re: re}, nil
	}
	if strings.Contains(src, "/") {
		return &Expr{Source: src, Syntax: SyntaxPath, path: src}, nil
	}
	return &Expr{Source: src, Syntax: SyntaxSubstring}, nil
}

func isRegexLiteral(src string) bool {
	return len(src) >= 2 && src[0] == '/' && src[len(src)-1] == '/'
}

// MatchName reports whether name is selected by the compiled
// expression.
func (e *Expr) MatchName(name string) bool {
	switch e.Syntax {
	case SyntaxRegex:
		return e.re.MatchString(name)
	case SyntaxPath:
		// e.path is matched as a whole unit, not just its last segment:
		// a path query selects descendant-or-self by name, and a
		// multi-segment source like "ns/foo" names the two-segment path
		// itself, not a bare "foo" suffix. The suffix compared is
		// "/"+e.path in full, so "x/foo" does not match a query for
		// "ns/foo".
		return name == e.path || strings.HasSuffix(name, "/"+e.path)
	default:
		return strings.Contains(name, e.Source)
	}
}
