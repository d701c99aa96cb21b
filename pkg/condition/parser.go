package condition

import (
	"errors"
	"fmt"
	"strconv"
)

type node interface {
	eval(env *env) (any, error)
}

type orNode struct{ left, right node }

type andNode struct{ left, right node }

type notNode struct{ inner node }

type compareNode struct {
	op          tokenKind
	left, right node
}

type literalNode struct{ value any }

// identNode reads a dot path from the snapshot, or evaluates the condition
// of the same name when one exists.
type identNode struct{ path string }

type tokenStream struct {
	tokens []token
	pos    int
}

func parse(source string) (node, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty expression")
	}

	stream := &tokenStream{tokens: tokens}
	n, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return n, nil
}

func parseOr(s *tokenStream) (node, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenOr) {
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(s *tokenStream) (node, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenAnd) {
		right, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(s *tokenStream) (node, error) {
	if s.match(tokenNot) {
		inner, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parseComparison(s)
}

func parseComparison(s *tokenStream) (node, error) {
	left, err := parsePrimary(s)
	if err != nil {
		return nil, err
	}
	for _, op := range []tokenKind{tokenEq, tokenNeq, tokenLte, tokenLt, tokenGte, tokenGt} {
		if s.match(op) {
			right, err := parsePrimary(s)
			if err != nil {
				return nil, err
			}
			return compareNode{op: op, left: left, right: right}, nil
		}
	}
	return left, nil
}

func parsePrimary(s *tokenStream) (node, error) {
	if s.pos >= len(s.tokens) {
		return nil, errors.New("unexpected end of expression")
	}
	tok := s.tokens[s.pos]
	s.pos++

	switch tok.kind {
	case tokenLParen:
		inner, err := parseOr(s)
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, errors.New("missing closing ')'")
		}
		return inner, nil
	case tokenIdentifier:
		return identNode{path: tok.raw}, nil
	case tokenString:
		return literalNode{value: tok.raw}, nil
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number literal %q", tok.raw)
		}
		return literalNode{value: f}, nil
	case tokenBool:
		return literalNode{value: tok.raw == "true"}, nil
	case tokenNull:
		return literalNode{value: nil}, nil
	default:
		return nil, fmt.Errorf("unexpected token %q", tok.raw)
	}
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

// references lists the identifiers of n in the order they appear.
func references(n node) []string {
	switch v := n.(type) {
	case orNode:
		return append(references(v.left), references(v.right)...)
	case andNode:
		return append(references(v.left), references(v.right)...)
	case notNode:
		return references(v.inner)
	case compareNode:
		return append(references(v.left), references(v.right)...)
	case identNode:
		return []string{v.path}
	}
	return nil
}
