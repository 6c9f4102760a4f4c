package compiler

import (
	"strconv"

	"github.com/dekarrin/strem/internal/listener"
)

// Parser is a hand-written recursive-descent parser for the SpRE
// grammar. The same token kinds (Pipe, Amp, Bang) carry different
// semantics depending on which of the three mutually recursive
// non-terminals is active; rather than re-dispatching on token kind,
// each parsing method is named for (and belongs to) exactly one of
// those non-terminals, so the calling context is always explicit in
// the call graph instead of being threaded as extra state.
type Parser struct {
	toks []Token
	pos  int
	l    listener.Listener
}

// NewParser creates a Parser over a token stream produced by Lexer.Lex.
func NewParser(toks []Token, l listener.Listener) *Parser {
	return &Parser{toks: toks, l: l}
}

// Parse parses the entire token stream as a spre and returns the root
// of the regex AST. A non-nil error is always a *listener.CompileError
// and is always fatal.
func (p *Parser) Parse() (*Node, error) {
	node, err := p.parseSpre()
	if err != nil {
		return nil, err
	}
	if !p.check(EndOfFile) {
		return nil, p.fatalExpectedFound(EndOfFile)
	}
	return node, nil
}

// --- spre / atom (regex layer; '|' is Alternation) ---

func (p *Parser) parseSpre() (*Node, error) {
	current, err := p.parseAtomWithPostfix()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.check(Pipe):
			p.advance()
			rhs, err := p.parseAtomWithPostfix()
			if err != nil {
				return nil, err
			}
			current = BinaryNode(Alternation, current, rhs)
		case p.startsAtom():
			rhs, err := p.parseAtomWithPostfix()
			if err != nil {
				return nil, err
			}
			current = BinaryNode(Concatenation, current, rhs)
		default:
			return current, nil
		}
	}
}

func (p *Parser) startsAtom() bool {
	return p.check(LeftParen) || p.check(LeftBracket)
}

func (p *Parser) parseAtomWithPostfix() (*Node, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.check(Star):
			p.advance()
			node = UnaryNode(KleeneStar, 0, 0, node)
		case p.check(LeftBrace):
			op, n, m, err := p.parseRange()
			if err != nil {
				return nil, err
			}
			node = UnaryNode(op, n, m, node)
		default:
			return node, nil
		}
	}
}

func (p *Parser) parseAtom() (*Node, error) {
	switch {
	case p.check(LeftParen):
		p.advance()
		inner, err := p.parseSpre()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RightParen); err != nil {
			return nil, err
		}
		return inner, nil
	case p.check(LeftBracket):
		p.advance()
		formula, err := p.parseS4u()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RightBracket); err != nil {
			return nil, err
		}
		return Leaf(formula), nil
	default:
		return nil, p.fatalSyntax("expected '(' or '['")
	}
}

func (p *Parser) parseRange() (UnaryOp, int, int, error) {
	if err := p.expect(LeftBrace); err != nil {
		return 0, 0, 0, err
	}
	n, err := p.parseInteger()
	if err != nil {
		return 0, 0, 0, err
	}

	if p.check(RightBrace) {
		p.advance()
		return RangeExactly, n, 0, nil
	}

	if err := p.expect(Comma); err != nil {
		return 0, 0, 0, err
	}

	if p.check(RightBrace) {
		p.advance()
		return RangeAtLeast, n, 0, nil
	}

	m, err := p.parseInteger()
	if err != nil {
		return 0, 0, 0, err
	}
	if err := p.expect(RightBrace); err != nil {
		return 0, 0, 0, err
	}
	return RangeBetween, n, m, nil
}

func (p *Parser) parseInteger() (int, error) {
	tok := p.peek()
	if tok.Kind != Integer {
		return 0, p.fatalExpectedFound(Integer)
	}
	p.advance()
	n, _ := strconv.Atoi(tok.Lexeme)
	return n, nil
}

// --- s4u (FOL over S4u; '&' = Conjunction, '|' = Disjunction, '!' = Negation) ---

func (p *Parser) parseS4u() (*Formula, error) {
	current, err := p.parseS4uAtom()
	if err != nil {
		return nil, err
	}

	for p.check(Amp) || p.check(Pipe) {
		op := FormulaConjunction
		if p.check(Pipe) {
			op = FormulaDisjunction
		}
		p.advance()
		rhs, err := p.parseS4uAtom()
		if err != nil {
			return nil, err
		}
		current = BinaryFormula(op, current, rhs)
	}

	return current, nil
}

func (p *Parser) parseS4uAtom() (*Formula, error) {
	switch {
	case p.check(LeftParen):
		p.advance()
		inner, err := p.parseS4u()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RightParen); err != nil {
			return nil, err
		}
		return inner, nil
	case p.check(Bang):
		p.advance()
		inner, err := p.parseS4u()
		if err != nil {
			return nil, err
		}
		return UnaryFormula(FormulaNegation, inner), nil
	case p.check(NonEmpty):
		p.advance()
		if p.check(LeftBracket) {
			class, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			return UnaryFormula(FormulaNonEmpty, ClassFormula(class)), nil
		}
		if err := p.expect(LeftParen); err != nil {
			return nil, err
		}
		inner, err := p.parseS4()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RightParen); err != nil {
			return nil, err
		}
		return UnaryFormula(FormulaNonEmpty, inner), nil
	case p.check(LeftBracket):
		class, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		return ClassFormula(class), nil
	default:
		return nil, p.fatalSyntax("expected '(', '!', <nonempty>, or a class")
	}
}

// --- s4 (set algebra; '&' = Intersection, '|' = Union, '!' = Complement) ---

func (p *Parser) parseS4() (*Formula, error) {
	current, err := p.parseS4Atom()
	if err != nil {
		return nil, err
	}

	for p.check(Amp) || p.check(Pipe) {
		op := FormulaIntersection
		if p.check(Pipe) {
			op = FormulaUnion
		}
		p.advance()
		rhs, err := p.parseS4Atom()
		if err != nil {
			return nil, err
		}
		current = BinaryFormula(op, current, rhs)
	}

	return current, nil
}

func (p *Parser) parseS4Atom() (*Formula, error) {
	switch {
	case p.check(LeftParen):
		p.advance()
		inner, err := p.parseS4()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RightParen); err != nil {
			return nil, err
		}
		return inner, nil
	case p.check(Bang):
		p.advance()
		inner, err := p.parseS4()
		if err != nil {
			return nil, err
		}
		return UnaryFormula(FormulaComplement, inner), nil
	case p.check(LeftBracket):
		class, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		return ClassFormula(class), nil
	default:
		return nil, p.fatalSyntax("expected '(', '!', or a class")
	}
}

// class ::= '[' ':' Identifier ':' ']'
func (p *Parser) parseClass() (string, error) {
	if err := p.expect(LeftBracket); err != nil {
		return "", err
	}
	if err := p.expect(Colon); err != nil {
		return "", err
	}
	tok := p.peek()
	if tok.Kind != Identifier {
		return "", p.fatalExpectedFound(Identifier)
	}
	p.advance()
	if err := p.expect(Colon); err != nil {
		return "", err
	}
	if err := p.expect(RightBracket); err != nil {
		return "", err
	}
	return tok.Lexeme, nil
}

// --- token cursor helpers ---

func (p *Parser) peek() Token {
	return p.toks[p.pos]
}

func (p *Parser) check(k Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) advance() Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(k Kind) error {
	if !p.check(k) {
		return p.fatalExpectedFound(k)
	}
	p.advance()
	return nil
}

func (p *Parser) fatalExpectedFound(expected Kind) error {
	found := p.peek()
	err := listener.New(listener.ParseExpectedFound, listener.Position(found.Pos),
		"expected "+expected.String()+" but found "+found.Kind.String())
	p.l.Fatal(err)
	return err
}

func (p *Parser) fatalSyntax(msg string) error {
	found := p.peek()
	err := listener.New(listener.ParseSyntax, listener.Position(found.Pos), msg)
	p.l.Fatal(err)
	return err
}
