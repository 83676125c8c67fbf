// Package lexer tokenizes Symphony source text.
package lexer

import "fmt"

// TokenType identifies the lexical class of a Token.
type TokenType int

// Token type constants, grouped the way the grammar groups them.
const (
	ILLEGAL TokenType = iota
	EOF

	// Literals
	INT_VAL
	DEC_VAL
	CHAR_VAL
	STR_VAL
	BOOL_VAL

	// Identifiers
	ID
	SPECIAL_ID

	// Type keywords
	INT
	DEC
	CHAR
	STR
	BOOL
	VOID

	// Control keywords
	IF
	ELSE
	ELSEIF
	WHILE
	FUN
	RETURN
	BREAK
	PROGRAM

	// Multi-character operators
	EXPONENTIATION // **
	INCREMENT      // ++
	DECREMENT      // --
	GREATER_EQUAL_THAN
	LESS_EQUAL_THAN
	EQUALS // equals
	MOD    // mod
	AND    // and
	OR     // or
	NOT    // not

	// Single-character literals
	COMMA
	SEMICOLON
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	ASSIGN
	PLUS
	MINUS
	ASTERISK
	SLASH
	GT
	LT
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	INT_VAL: "INT_VAL", DEC_VAL: "DEC_VAL", CHAR_VAL: "CHAR_VAL",
	STR_VAL: "STR_VAL", BOOL_VAL: "BOOL_VAL",
	ID: "ID", SPECIAL_ID: "SPECIAL_ID",
	INT: "INT", DEC: "DEC", CHAR: "CHAR", STR: "STR", BOOL: "BOOL", VOID: "VOID",
	IF: "IF", ELSE: "ELSE", ELSEIF: "ELSEIF", WHILE: "WHILE", FUN: "FUN",
	RETURN: "RETURN", BREAK: "BREAK", PROGRAM: "PROGRAM",
	EXPONENTIATION: "EXPONENTIATION", INCREMENT: "INCREMENT", DECREMENT: "DECREMENT",
	GREATER_EQUAL_THAN: "GREATER_EQUAL_THAN", LESS_EQUAL_THAN: "LESS_EQUAL_THAN",
	EQUALS: "EQUALS", MOD: "MOD", AND: "AND", OR: "OR", NOT: "NOT",
	COMMA: "COMMA", SEMICOLON: "SEMICOLON", LPAREN: "LPAREN", RPAREN: "RPAREN",
	LBRACE: "LBRACE", RBRACE: "RBRACE", LBRACKET: "LBRACKET", RBRACKET: "RBRACKET",
	ASSIGN: "ASSIGN", PLUS: "PLUS", MINUS: "MINUS", ASTERISK: "ASTERISK",
	SLASH: "SLASH", GT: "GT", LT: "LT",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords maps lowercase source spellings to their TokenType, for words
// that are reserved rather than plain identifiers.
var keywords = map[string]TokenType{
	"void": VOID, "int": INT, "dec": DEC, "char": CHAR, "str": STR, "bool": BOOL,
	"if": IF, "else": ELSE, "elseif": ELSEIF, "while": WHILE, "fun": FUN,
	"return": RETURN, "break": BREAK, "program": PROGRAM,
	"equals": EQUALS, "mod": MOD, "and": AND, "or": OR, "not": NOT,
	"true": BOOL_VAL, "false": BOOL_VAL,
}

// specialIDs is the closed set of reserved built-in function names.
var specialIDs = map[string]bool{
	"print": true, "println": true, "read": true, "sqrt": true, "log": true,
	"random": true, "little_star": true,
	"A": true, "B": true, "C": true, "D": true, "E": true, "F": true, "G": true,
	"concat": true, "length": true, "copy": true, "get": true, "to_str": true,
	"input": true, "floor": true, "ceil": true,
}

// Position is a 1-indexed line/column pair identifying where a token starts.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit together with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
