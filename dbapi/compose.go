package dbapi

import (
	"fmt"
	"strconv"
	"strings"
)

// Composable is a statement, or a part of it, that must be rendered before being sent to the database.
type Composable interface {
	AsString(r Renderer) (string, error)
}

var (
	_ Composable = SQL("")
	_ Composable = Identifier(nil)
	_ Composable = Literal{}
	_ Composable = Placeholder("")
	_ Composable = Composed(nil)
)

// SQL is a snippet of raw SQL text, rendered verbatim.
type SQL string

// AsString renders the snippet.
func (s SQL) AsString(Renderer) (string, error) {
	return string(s), nil
}

// Join joins the parts using the snippet as separator.
func (s SQL) Join(parts ...Composable) Composed {
	return Composed(parts).Join(s)
}

type fieldNumbering int

const (
	numberingUnset fieldNumbering = iota
	numberingAutomatic
	numberingManual
)

// Format replaces the {} and {n} fields of the snippet with the given parts. {{ and }} are literal braces.
//
//	dbapi.SQL("SELECT * FROM {} WHERE id = {}").Format(dbapi.Identifier{"users"}, dbapi.Placeholder(""))
func (s SQL) Format(args ...Composable) (Composed, error) { // nolint: cyclop
	var (
		result Composed
		sb     strings.Builder
		text   = string(s)
		auto   = 0
		mode   = numberingUnset
		flush  = func() {
			if sb.Len() > 0 {
				result = append(result, SQL(sb.String()))
				sb.Reset()
			}
		}
	)

	for i := 0; i < len(text); i++ {
		switch ch := text[i]; {
		case ch == '{' && i+1 < len(text) && text[i+1] == '{':
			sb.WriteByte('{')
			i++

		case ch == '}' && i+1 < len(text) && text[i+1] == '}':
			sb.WriteByte('}')
			i++

		case ch == '}':
			return nil, fmt.Errorf("%w: single '}' at position %d", ErrFormat, i)

		case ch == '{':
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated field at position %d", ErrFormat, i)
			}

			field := text[i+1 : i+end]
			idx := auto

			if field == "" {
				if mode == numberingManual {
					return nil, fmt.Errorf("%w: cannot switch from manual to automatic field numbering", ErrFormat)
				}

				mode = numberingAutomatic
				auto++
			} else {
				if mode == numberingAutomatic {
					return nil, fmt.Errorf("%w: cannot switch from automatic to manual field numbering", ErrFormat)
				}

				n, err := strconv.Atoi(field)
				if err != nil {
					return nil, fmt.Errorf("%w: invalid field %q", ErrFormat, field)
				}

				mode = numberingManual
				idx = n
			}

			if idx < 0 || idx >= len(args) {
				return nil, fmt.Errorf("%w: field index %d out of range", ErrFormat, idx)
			}

			flush()
			result = append(result, args[idx])
			i += end

		default:
			sb.WriteByte(ch)
		}
	}

	flush()

	return result, nil
}

// Identifier is a possibly qualified SQL identifier, such as a table or a column name.
type Identifier []string

// AsString renders the quoted identifier.
func (i Identifier) AsString(r Renderer) (string, error) {
	if len(i) == 0 {
		return "", fmt.Errorf("%w: empty identifier", ErrFormat)
	}

	return r.QuoteIdentifier(i...), nil
}

// Literal is a value rendered as a SQL literal.
type Literal struct {
	Value any
}

// AsString renders the literal.
func (l Literal) AsString(r Renderer) (string, error) {
	return r.QuoteLiteral(l.Value)
}

// Placeholder is a query parameter. An empty name is a positional placeholder.
type Placeholder string

// AsString renders the placeholder as %s or %(name)s.
func (p Placeholder) AsString(Renderer) (string, error) {
	if p == "" {
		return "%s", nil
	}

	if strings.ContainsAny(string(p), ")%") {
		return "", fmt.Errorf("%w: invalid placeholder name %q", ErrFormat, string(p))
	}

	return "%(" + string(p) + ")s", nil
}

// Composed is a sequence of Composable rendered one after another.
type Composed []Composable

// AsString renders all the parts.
func (c Composed) AsString(r Renderer) (string, error) {
	var sb strings.Builder

	for _, p := range c {
		s, err := p.AsString(r)
		if err != nil {
			return "", err
		}

		sb.WriteString(s)
	}

	return sb.String(), nil
}

// Join returns the parts separated by sep.
func (c Composed) Join(sep Composable) Composed {
	if len(c) == 0 {
		return nil
	}

	result := make(Composed, 0, 2*len(c)-1)

	for i, p := range c {
		if i > 0 {
			result = append(result, sep)
		}

		result = append(result, p)
	}

	return result
}
