package token

import "testing"

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want Token
	}{
		{
			name: "Create single-character operator token",
			kind: Kind('+'),
			want: Token{Kind: Kind('+'), Lexeme: "+", Line: 1, Column: 3},
		},
		{
			name: "Create IDENT token",
			kind: IDENT,
			want: Token{Kind: IDENT, Lexeme: "myVar", Line: 1, Column: 3},
		},
		{
			name: "Create keyword token",
			kind: RETURN,
			want: Token{Kind: RETURN, Lexeme: "return", Line: 1, Column: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.kind, tt.want.Lexeme, 1, 3)
			if got != tt.want {
				t.Errorf("CreateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateNumToken(t *testing.T) {
	got := CreateNumToken(42, "42", 2, 5)
	want := Token{Kind: NUM, Lexeme: "42", Value: 42, Line: 2, Column: 5}
	if got != want {
		t.Errorf("CreateNumToken() = %v, want %v", got, want)
	}
}

func TestIsKeyword(t *testing.T) {
	tests := []struct {
		lexeme string
		want   Kind
		isKw   bool
	}{
		{"int", TYPE_INT, true},
		{"struct", STRUCT, true},
		{"sizeof", SIZEOF, true},
		{"foo", ILLEGAL, false},
	}
	for _, tt := range tests {
		kind, ok := IsKeyword(tt.lexeme)
		if ok != tt.isKw {
			t.Errorf("IsKeyword(%q) ok = %v, want %v", tt.lexeme, ok, tt.isKw)
		}
		if ok && kind != tt.want {
			t.Errorf("IsKeyword(%q) = %v, want %v", tt.lexeme, kind, tt.want)
		}
	}
}
