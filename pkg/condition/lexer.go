package condition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '!', '=', '&', '|', '<', '>', '"', '\'':
		return true
	}
	return isSpace(c)
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}
	emit := func(kind tokenKind, raw string) {
		tokens = append(tokens, token{kind: kind, raw: raw})
		i += len(raw)
	}

	for i < len(input) {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		switch ch {
		case '(':
			emit(tokenLParen, "(")
		case ')':
			emit(tokenRParen, ")")
		case '!':
			if peek(1) == '=' {
				emit(tokenNeq, "!=")
			} else {
				emit(tokenNot, "!")
			}
		case '=':
			if peek(1) != '=' {
				return nil, fmt.Errorf("unexpected '=' at offset %d; use '=='", i)
			}
			emit(tokenEq, "==")
		case '<':
			if peek(1) == '=' {
				emit(tokenLte, "<=")
			} else {
				emit(tokenLt, "<")
			}
		case '>':
			if peek(1) == '=' {
				emit(tokenGte, ">=")
			} else {
				emit(tokenGt, ">")
			}
		case '&':
			if peek(1) != '&' {
				return nil, fmt.Errorf("unexpected '&' at offset %d; use '&&'", i)
			}
			emit(tokenAnd, "&&")
		case '|':
			if peek(1) != '|' {
				return nil, fmt.Errorf("unexpected '|' at offset %d; use '||'", i)
			}
			emit(tokenOr, "||")
		case '"', '\'':
			value, n, err := readString(input[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i += n
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			tokens = append(tokens, word(input[start:i]))
		}
	}

	return tokens, nil
}

// readString reads a quoted literal at the start of s and returns its value
// and the number of bytes consumed.
func readString(s string) (string, int, error) {
	quote := s[0]
	escaped := false
	for j := 1; j < len(s); j++ {
		c := s[j]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == quote {
			body := s[1:j]
			if quote == '\'' {
				body = strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return "", 0, fmt.Errorf("invalid string literal: %w", err)
			}
			return value, j + 1, nil
		}
	}
	return "", 0, errors.New("unterminated string literal")
}

func word(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil", "undefined":
		return token{kind: tokenNull, raw: "null"}
	case "and":
		return token{kind: tokenAnd, raw: raw}
	case "or":
		return token{kind: tokenOr, raw: raw}
	case "not":
		return token{kind: tokenNot, raw: raw}
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return token{kind: tokenNumber, raw: raw}
	}
	return token{kind: tokenIdentifier, raw: raw}
}
