package js

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// TokenKind distinguishes the two token forms.
type TokenKind int

const (
	Punctuator TokenKind = iota
	Number
)

// Token is a single-character punctuator or a decimal numeric literal.
type Token struct {
	Kind  TokenKind
	Punct rune   // set for Punctuator
	Value uint64 // set for Number
}

// PunctuatorToken returns the punctuator token for r.
func PunctuatorToken(r rune) Token { return Token{Kind: Punctuator, Punct: r} }

// NumberToken returns the numeric literal token for v.
func NumberToken(v uint64) Token { return Token{Kind: Number, Value: v} }

func (t Token) String() string {
	if t.Kind == Number {
		return fmt.Sprintf("Number(%d)", t.Value)
	}
	return fmt.Sprintf("Punctuator(%q)", t.Punct)
}

const punctuators = "+-*/%=<>!&|^~?:;,.(){}[]"

var (
	// ErrUnexpectedChar is returned for input that starts no token.
	ErrUnexpectedChar = errors.New("unexpected character")
	// ErrNumberOverflow is returned for literals that do not fit in 64 bits.
	ErrNumberOverflow = errors.New("numeric literal overflows uint64")
)

// Lex splits src into tokens, skipping whitespace. Errors carry the byte
// offset of the offending input.
func Lex(src string) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(src); {
		r := rune(src[i])
		switch {
		case r >= '0' && r <= '9':
			start := i
			var v uint64
			for ; i < len(src) && src[i] >= '0' && src[i] <= '9'; i++ {
				d := uint64(src[i] - '0')
				if v > (^uint64(0)-d)/10 {
					return nil, fmt.Errorf("offset %d: %w", start, ErrNumberOverflow)
				}
				v = v*10 + d
			}
			tokens = append(tokens, NumberToken(v))
		case r < unicode.MaxASCII && unicode.IsSpace(r):
			i++
		case strings.ContainsRune(punctuators, r):
			tokens = append(tokens, PunctuatorToken(r))
			i++
		default:
			return nil, fmt.Errorf("offset %d: %w %q", i, ErrUnexpectedChar, firstRune(src[i:]))
		}
	}
	return tokens, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
