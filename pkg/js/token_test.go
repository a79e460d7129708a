package js

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\n", nil},
		{"addition", "1 + 2;", []Token{NumberToken(1), PunctuatorToken('+'), NumberToken(2), PunctuatorToken(';')}},
		{"no spaces", "(42)*7", []Token{PunctuatorToken('('), NumberToken(42), PunctuatorToken(')'), PunctuatorToken('*'), NumberToken(7)}},
		{"max uint64", "18446744073709551615", []Token{NumberToken(18446744073709551615)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLex_Errors(t *testing.T) {
	if _, err := Lex("1 + x"); !errors.Is(err, ErrUnexpectedChar) {
		t.Errorf("expected ErrUnexpectedChar, got %v", err)
	}
	if _, err := Lex("18446744073709551616"); !errors.Is(err, ErrNumberOverflow) {
		t.Errorf("expected ErrNumberOverflow, got %v", err)
	}
}

func TestToken_String(t *testing.T) {
	if got := NumberToken(3).String(); got != "Number(3)" {
		t.Errorf("got %q", got)
	}
	if got := PunctuatorToken('{').String(); got != "Punctuator('{')" {
		t.Errorf("got %q", got)
	}
	if NumberToken(1) == PunctuatorToken('1') {
		t.Error("tokens of different kinds compare equal")
	}
}
