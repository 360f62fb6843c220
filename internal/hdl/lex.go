// Package hdl implements a lexer and parser for signal declaration strings
// like "a[4], b[4], cin".
//
package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Type is a token type.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Error
)

var typeNames = [...]string{
	EOF:          "end of input",
	Raw:          "raw character",
	Ident:        "identifier",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Comma:        "','",
	Int:          "integer",
	Error:        "invalid token",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   int // byte offset in the input
	Value interface{}
}

func (i Item) String() string {
	switch i.Type {
	case Ident:
		return "identifier " + strconv.Quote(i.Value.(string))
	case Int:
		return "integer " + strconv.Itoa(i.Value.(int))
	case Raw:
		return "character " + strconv.QuoteRune(i.Value.(rune))
	case Error:
		return "invalid integer " + strconv.Quote(i.Value.(string))
	}
	return i.Type.String()
}

// StateFn is a lexer state function. It returns the next state, or nil to
// go back to the initial state.
//
type StateFn func(l *Lexer) StateFn

// Lexer is a state function based lexer.
//
type Lexer struct {
	input string
	pos   int // current read offset
	start int // start of the current token
	width int // width of the last rune read
	cur   rune
	state StateFn
	items []Item
}

// NewLexer returns a new lexer for declaration strings.
//
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex returns the next item in the input.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.start = l.pos
			l.state = lexInit
		}
		l.state = l.state(l)
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

// Next reads the next rune, or EOF (-1).
//
func (l *Lexer) Next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		l.cur = -1
		return l.cur
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	l.cur = r
	return r
}

// Backup unreads the last rune. It can only be called once per call of Next.
//
func (l *Lexer) Backup() {
	l.pos -= l.width
	l.width = 0
}

// Current returns the last rune read.
//
func (l *Lexer) Current() rune { return l.cur }

// Emit emits a token starting at the beginning of the current token.
//
func (l *Lexer) Emit(t Type, value interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: value})
	l.start = l.pos
}

func lexInit(l *Lexer) StateFn {
	r := l.Next()
	switch {
	case r < 0:
		return lexEOF
	case unicode.IsSpace(r):
		for unicode.IsSpace(r) {
			r = l.Next()
		}
		if r >= 0 {
			l.Backup()
		}
		l.start = l.pos
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case '0' <= r && r <= '9':
		return lexNumber
	case r == '[':
		l.Emit(BracketOpen, "[")
	case r == ']':
		l.Emit(BracketClose, "]")
	case r == ',':
		l.Emit(Comma, ",")
	default:
		l.Emit(Raw, r)
		return lexEOF
	}
	return nil
}

// lexNumber emits an Int, or an Error item if the value does not fit an int.
//
func lexNumber(l *Lexer) StateFn {
	r := l.Next()
	for '0' <= r && r <= '9' {
		r = l.Next()
	}
	if r >= 0 {
		l.Backup()
	}
	lit := l.input[l.start:l.pos]
	i, err := strconv.Atoi(lit)
	if err != nil {
		l.Emit(Error, lit)
		return lexEOF
	}
	l.Emit(Int, i)
	return nil
}

func lexIdent(l *Lexer) StateFn {
	r := l.Next()
	for unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		r = l.Next()
	}
	if r >= 0 {
		l.Backup()
	}
	l.Emit(Ident, l.input[l.start:l.pos])
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *Lexer) StateFn {
	l.start = l.pos
	l.Emit(EOF, nil)
	return lexEOF
}
