// Package cyphererr defines the error taxonomy for the Cypher front-end.
//
// Every error that can escape the lexer, parser, binder, or transform is a
// member of exactly one of the kinds declared below. Kinds are built with
// gopkg.in/src-d/go-errors.v1, the same "NewKind + New(args...)" convention
// github.com/dolthub/go-mysql-server uses for its auth errors
// (ErrNotAuthorized = errors.NewKind("not authorized")). The lexer and
// parser attach a Span so the caller can report a byte-offset location,
// per spec §6/§7; errors raised by the binder and transform carry no Span.
package cyphererr

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"
)

// Span is a byte-offset range in the original query text.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.Start, s.End)
}

// Category names the taxonomy bucket a Kind belongs to, for callers that
// want to branch on the general shape of a failure without switching on
// every individual Kind.
type Category string

const (
	CategorySyntax      Category = "syntax"
	CategoryBinding     Category = "binding"
	CategorySemantic    Category = "semantic"
	CategoryType        Category = "type"
	CategoryNotSupport  Category = "not_supported"
	CategoryRuntime     Category = "runtime"
)

// Kinds, one per taxonomy entry named in spec §7. Each is a template;
// construct an error with Kind.New(args...) and wrap it with WithSpan.
var (
	// Syntax
	ErrUnexpectedToken  = errors.NewKind("unexpected token %s at %s")
	ErrMalformedRange   = errors.NewKind("malformed variable-length range %q")
	ErrUnknownKeyword   = errors.NewKind("keyword %q cannot be used here")
	ErrMisplacedUnion   = errors.NewKind("UNION must separate two complete queries")
	ErrInvalidRegex     = errors.NewKind("invalid regular expression %q: %v")

	// Binding
	ErrDuplicateBinding = errors.NewKind("%q is already bound with a different kind")
	ErrUnknownVariable  = errors.NewKind("variable %q is not defined")
	ErrKindMismatch     = errors.NewKind("%q is bound as %s, expected %s")

	// Semantic
	ErrDirectedEdgeRequired  = errors.NewKind("relationships created with CREATE must have a direction")
	ErrMissingEdgeLabel      = errors.NewKind("relationships created with CREATE must have a label")
	ErrEdgeReusedInMerge     = errors.NewKind("relationship %q is already bound and cannot be re-declared by MERGE")
	ErrDeleteBeforeBinding   = errors.NewKind("DELETE must follow a clause that binds %q")
	ErrParamPropertyInCreate = errors.NewKind("CREATE cannot take a parameter as an entire property map")
	ErrBadSetTarget          = errors.NewKind("SET/REMOVE target must have the form variable.property, got %q")
	ErrMissingAlias          = errors.NewKind("WITH item %q must have an alias")
	ErrCreateRebind          = errors.NewKind("%q was declared in a previous clause and cannot be re-created with a new label or properties")

	// Type
	ErrUnionColumnType  = errors.NewKind("UNION branch %d column %d type %s does not match %s")
	ErrIllegalLimit     = errors.NewKind("LIMIT/SKIP cannot reference a variable")
	ErrNonBooleanWhere  = errors.NewKind("WHERE expression does not coerce to boolean")
	ErrInvalidUnionOrderBy = errors.NewKind("ORDER BY after UNION may only reference output column names")

	// Not-Supported
	ErrCallProcedures  = errors.NewKind("CALL procedures are not supported")
	ErrGroupingSets    = errors.NewKind("grouping sets are not supported")
	ErrRecursiveCTE    = errors.NewKind("recursive CTEs inside UNION are not supported")

	// Runtime (VLE)
	ErrInvalidVLERange = errors.NewKind("variable-length range lo=%d > hi=%d")
	ErrTraversalCanceled = errors.NewKind("traversal canceled")
)

// WithSpan attaches a source span to an error built from one of the Kinds
// above. Returns err unchanged if it is nil.
func WithSpan(err error, span Span) error {
	if err == nil {
		return nil
	}
	return &spanned{err: err, span: span}
}

type spanned struct {
	err  error
	span Span
}

func (s *spanned) Error() string { return fmt.Sprintf("%s %s", s.err.Error(), s.span) }
func (s *spanned) Unwrap() error { return s.err }
func (s *spanned) Span() Span    { return s.span }

// SpanOf extracts the Span attached by WithSpan, if any.
func SpanOf(err error) (Span, bool) {
	var sp *spanned
	for e := err; e != nil; {
		if s, ok := e.(*spanned); ok {
			sp = s
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	if sp == nil {
		return Span{}, false
	}
	return sp.span, true
}

// categoryOf maps a Kind to its Category. Kept as a lookup table rather
// than embedding the category in the Kind itself since go-errors.v1's Kind
// carries only a message template.
var categoryOf = map[*errors.Kind]Category{
	ErrUnexpectedToken: CategorySyntax,
	ErrMalformedRange:  CategorySyntax,
	ErrUnknownKeyword:  CategorySyntax,
	ErrMisplacedUnion:  CategorySyntax,
	ErrInvalidRegex:    CategorySyntax,

	ErrDuplicateBinding: CategoryBinding,
	ErrUnknownVariable:  CategoryBinding,
	ErrKindMismatch:     CategoryBinding,

	ErrDirectedEdgeRequired:  CategorySemantic,
	ErrMissingEdgeLabel:      CategorySemantic,
	ErrEdgeReusedInMerge:     CategorySemantic,
	ErrDeleteBeforeBinding:   CategorySemantic,
	ErrParamPropertyInCreate: CategorySemantic,
	ErrBadSetTarget:          CategorySemantic,
	ErrMissingAlias:          CategorySemantic,
	ErrCreateRebind:          CategorySemantic,

	ErrUnionColumnType:     CategoryType,
	ErrIllegalLimit:        CategoryType,
	ErrNonBooleanWhere:     CategoryType,
	ErrInvalidUnionOrderBy: CategoryType,

	ErrCallProcedures: CategoryNotSupport,
	ErrGroupingSets:   CategoryNotSupport,
	ErrRecursiveCTE:   CategoryNotSupport,

	ErrInvalidVLERange:   CategoryRuntime,
	ErrTraversalCanceled: CategoryRuntime,
}

// CategoryFor reports which taxonomy bucket err falls into, walking Is()
// checks against every known Kind. Returns ("", false) for errors that did
// not originate from this package (e.g. a bare fmt.Errorf from a caller).
func CategoryFor(err error) (Category, bool) {
	for kind, cat := range categoryOf {
		if kind.Is(err) {
			return cat, true
		}
	}
	return "", false
}
