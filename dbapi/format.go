package dbapi

import (
	"fmt"
	"strconv"
	"strings"
)

// formatToken is either a literal chunk of text or a placeholder.
type formatToken struct {
	text        string
	placeholder bool
	name        string
}

// parseFormat splits a statement into literal chunks and %s or %(name)s placeholders. A %% is a literal percent sign.
func parseFormat(text string) ([]formatToken, error) {
	var (
		tokens []formatToken
		sb     strings.Builder
	)

	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, formatToken{text: sb.String()})
			sb.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		if text[i] != '%' {
			sb.WriteByte(text[i])

			continue
		}

		if i+1 >= len(text) {
			return nil, fmt.Errorf("%w: incomplete placeholder at position %d", ErrFormat, i)
		}

		switch text[i+1] {
		case '%':
			sb.WriteByte('%')
			i++

		case 's':
			flush()
			tokens = append(tokens, formatToken{placeholder: true})
			i++

		case '(':
			end := strings.IndexByte(text[i+2:], ')')
			if end < 0 || i+2+end+1 >= len(text) || text[i+2+end+1] != 's' {
				return nil, fmt.Errorf("%w: malformed named placeholder at position %d", ErrFormat, i)
			}

			flush()
			tokens = append(tokens, formatToken{placeholder: true, name: text[i+2 : i+2+end]})
			i += 2 + end + 1

		default:
			return nil, fmt.Errorf("%w: unsupported format character %q at position %d", ErrFormat, text[i+1], i+1)
		}
	}

	flush()

	return tokens, nil
}

// bindFormat walks the tokens and writes every placeholder using the given function, which receives the argument
// bound to it.
func bindFormat(text string, args []any, write func(sb *strings.Builder, name string, arg any) error) (string, error) {
	tokens, err := parseFormat(text)
	if err != nil {
		return "", err
	}

	named, positional := 0, 0

	for _, t := range tokens {
		switch {
		case !t.placeholder:
		case t.name == "":
			positional++
		default:
			named++
		}
	}

	if named > 0 && positional > 0 {
		return "", fmt.Errorf("%w: mixed named and positional placeholders", ErrFormat)
	}

	var params map[string]any

	if named > 0 {
		var ok bool

		if len(args) == 1 {
			params, ok = args[0].(map[string]any)
		}

		if !ok {
			return "", fmt.Errorf("%w: named placeholders require a single map[string]any argument", ErrFormat)
		}
	} else if positional != len(args) {
		return "", fmt.Errorf("%w: statement has %d placeholders but %d arguments were given", ErrFormat, positional, len(args))
	}

	var sb strings.Builder

	sb.Grow(len(text))

	idx := 0

	for _, t := range tokens {
		if !t.placeholder {
			sb.WriteString(t.text)

			continue
		}

		var arg any

		if t.name != "" {
			v, ok := params[t.name]
			if !ok {
				return "", fmt.Errorf("%w: missing argument %q", ErrFormat, t.name)
			}

			arg = v
		} else {
			arg = args[idx]
			idx++
		}

		if err := write(&sb, t.name, arg); err != nil {
			return "", err
		}
	}

	return sb.String(), nil
}

// Interpolate substitutes the arguments into the statement as SQL literals rendered by r. The result is meant for
// display only and is never sent to the database.
//
// Without arguments, the statement is returned as is and percent signs are not interpreted.
func Interpolate(text string, args []any, r Renderer) (string, error) {
	if len(args) == 0 {
		return text, nil
	}

	return bindFormat(text, args, func(sb *strings.Builder, _ string, arg any) error {
		lit, err := r.QuoteLiteral(arg)
		if err != nil {
			return err
		}

		sb.WriteString(lit)

		return nil
	})
}

// Rebind converts %s and %(name)s placeholders to the $n placeholders of the driver and returns the arguments in
// placeholder order. A name used more than once is bound once.
//
// Without arguments, the statement is returned as is and percent signs are not interpreted.
func Rebind(text string, args []any) (string, []any, error) {
	if len(args) == 0 {
		return text, nil, nil
	}

	var (
		bound     = make([]any, 0, len(args))
		positions = make(map[string]int)
	)

	query, err := bindFormat(text, args, func(sb *strings.Builder, name string, arg any) error {
		pos, ok := positions[name]

		if name == "" || !ok {
			bound = append(bound, arg)
			pos = len(bound)

			if name != "" {
				positions[name] = pos
			}
		}

		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(pos))

		return nil
	})
	if err != nil {
		return "", nil, err
	}

	return query, bound, nil
}
