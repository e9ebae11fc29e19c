// Package param classifies user parameter expressions and parses the
// semicolon-separated candidate value lists the operator enters for a batch
// run. Only simple-literal parameters take part in iteration; anything with
// operators or function calls is a formula and is excluded.
package param

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// simpleLiteralRe matches a bare number with an optional unit suffix,
	// e.g. "12", "-3.5 mm", "100%", "45 °".
	simpleLiteralRe = regexp.MustCompile(`^\s*([-+]?\d+(?:\.\d+)?)\s*([A-Za-z%°/]+)?\s*$`)

	// textLiteralRe matches a single-quoted string, e.g. "'Rev A'".
	textLiteralRe = regexp.MustCompile(`^\s*'([^']*)'\s*$`)
)

// ErrBadValueList marks any value-list parse failure so validation can tell
// it apart from other errors and surface a single operator-facing message.
var ErrBadValueList = errors.New("invalid value list")

// Class is the result of classifying a parameter expression.
type Class int

const (
	ClassFormula Class = iota
	ClassNumeric
	ClassText
)

// Classify decides whether an expression is a simple numeric literal, a
// simple quoted text literal, or a formula. Formulas are never iterated.
func Classify(expr string) Class {
	switch {
	case expr == "":
		return ClassFormula
	case simpleLiteralRe.MatchString(expr):
		return ClassNumeric
	case textLiteralRe.MatchString(expr):
		return ClassText
	default:
		return ClassFormula
	}
}

// IsSimpleLiteral reports whether the expression can take part in iteration.
func IsSimpleLiteral(expr string) bool {
	return Classify(expr) != ClassFormula
}

// FormatTwoDecimals renders a numeric literal like "12 mm" as "12.00 mm" for
// display. Expressions that are not simple numeric literals pass through
// unchanged.
func FormatTwoDecimals(expr string) string {
	m := simpleLiteralRe.FindStringSubmatch(expr)
	if m == nil {
		return expr
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return expr
	}
	unit := strings.TrimSpace(m[2])
	if unit == "" {
		return fmt.Sprintf("%.2f", num)
	}
	return fmt.Sprintf("%.2f %s", num, unit)
}

// Value is one concrete candidate value, either numeric or text.
type Value struct {
	Text   string
	Num    float64
	IsText bool
}

// NumValue wraps a float.
func NumValue(v float64) Value { return Value{Num: v} }

// TextValue wraps a string (without the surrounding quotes).
func TextValue(s string) Value { return Value{Text: s, IsText: true} }

// String renders the value for filenames and progress notes. Numeric values
// keep a decimal point so 12.0 reads as "12.0", not "12".
func (v Value) String() string {
	if v.IsText {
		return v.Text
	}
	s := strconv.FormatFloat(v.Num, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Expression renders the value in the form written back to the live
// parameter: "<value> <unit>" for numbers, "'<value>'" for text.
func (v Value) Expression(unit string) string {
	if v.IsText {
		return "'" + strings.TrimSpace(v.Text) + "'"
	}
	return strings.TrimSpace(v.String() + " " + strings.TrimSpace(unit))
}

// ParseNumericList parses "1; 5.5; 12" into [1 5.5 12]. Whitespace around
// tokens is ignored and empty tokens are dropped. An empty input, or any
// non-empty token that is not a number, fails the whole parse.
func ParseNumericList(raw string) ([]Value, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.Wrap(ErrBadValueList, "empty")
	}
	var vals []Value
	for _, tok := range strings.Split(raw, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrBadValueList, "bad number token %q", tok)
		}
		vals = append(vals, NumValue(n))
	}
	if len(vals) == 0 {
		return nil, errors.Wrap(ErrBadValueList, "no numbers")
	}
	return vals, nil
}

// ParseTextList parses "'a'; 'b;c'; 'd'" into [a b;c d]. Semicolons inside
// single-quote spans are not separators; a backslash-escaped quote does not
// toggle the span. Every non-empty token must be a quoted literal.
func ParseTextList(raw string) ([]Value, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.Wrap(ErrBadValueList, "empty")
	}

	var parts []string
	var current strings.Builder
	inQuotes := false
	runes := []rune(raw)
	for i, r := range runes {
		switch {
		case r == '\'' && (i == 0 || runes[i-1] != '\\'):
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ';' && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	var vals []Value
	for _, tok := range parts {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		m := textLiteralRe.FindStringSubmatch(tok)
		if m == nil {
			return nil, errors.Wrapf(ErrBadValueList, "bad text token %q", tok)
		}
		vals = append(vals, TextValue(m[1]))
	}
	if len(vals) == 0 {
		return nil, errors.Wrap(ErrBadValueList, "no text values")
	}
	return vals, nil
}

// ParseList picks the parser matching the parameter kind. Numeric is the
// default for anything that is not text.
func ParseList(raw string, text bool) ([]Value, error) {
	if text {
		return ParseTextList(raw)
	}
	return ParseNumericList(raw)
}

// NumericLiteral extracts the number and unit from a simple numeric literal
// expression like "12.5 mm". ok is false for anything else.
func NumericLiteral(expr string) (value float64, unit string, ok bool) {
	m := simpleLiteralRe.FindStringSubmatch(expr)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return n, strings.TrimSpace(m[2]), true
}

// UnwrapText strips the quotes from a simple text literal expression,
// returning the inner value and whether the expression matched.
func UnwrapText(expr string) (string, bool) {
	m := textLiteralRe.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}
	return m[1], true
}
