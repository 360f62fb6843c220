package hdl

import (
	"github.com/pkg/errors"
)

// Decl is a signal declaration: a name with an optional width.
//
//	cin     // Decl{Name: "cin", Width: 1}
//	a[4]    // Decl{Name: "a", Width: 4}
//
type Decl struct {
	Name  string
	Width int
	Pos   int
}

// ParseDecls parses a comma separated list of signal declarations.
// An empty (or blank) input returns no declarations and no error.
//
func ParseDecls(input string) ([]Decl, error) {
	var out []Decl

	l := NewLexer(input)
	i := l.Lex()
	if i.Type == EOF {
		return nil, nil
	}
	for {
		if i.Type != Ident {
			return nil, parseError(input, i, "expected signal name")
		}
		d := Decl{Name: i.Value.(string), Width: 1, Pos: i.Pos}
		i = l.Lex()
		if i.Type == BracketOpen {
			i = l.Lex()
			if i.Type != Int {
				return nil, parseError(input, i, "integer width expected after '['")
			}
			d.Width = i.Value.(int)
			i = l.Lex()
			if i.Type != BracketClose {
				return nil, parseError(input, i, "closing ']' expected after width")
			}
			i = l.Lex()
		}
		out = append(out, d)
		switch i.Type {
		case EOF:
			return out, nil
		case Comma:
			i = l.Lex()
		default:
			return nil, parseError(input, i, "expected comma or end of input")
		}
	}
}

func parseError(in string, i Item, msg string) error {
	return errors.Errorf("in %q at pos %d: %s, got %s", in, i.Pos+1, msg, i)
}
