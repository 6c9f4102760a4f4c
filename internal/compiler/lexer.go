package compiler

import (
	"unicode"

	"github.com/dekarrin/strem/internal/listener"
)

// singleCharTokens maps the structural and operator runes that need no
// lookahead to their Kind, mirroring the regularModeMatchRules table
// approach the front end was modeled on: a flat table for the
// unambiguous cases keeps the scan loop free of a long if/else chain.
var singleCharTokens = map[rune]Kind{
	'(': LeftParen,
	')': RightParen,
	'{': LeftBrace,
	'}': RightBrace,
	'[': LeftBracket,
	']': RightBracket,
	'>': RightChevron,
	',': Comma,
	':': Colon,
	'*': Star,
	'%': Percent,
	'!': Bang,
	'&': Amp,
	'|': Pipe,
}

// functionNames maps a recognized `<name>` function form to its keyword
// Kind. "nonempty" is the only name the grammar defines.
var functionNames = map[string]Kind{
	"nonempty": NonEmpty,
}

// Lexer scans a SpRE source string into a Token stream. It reports
// recoverable diagnostics (unknown characters) to its attached
// listener.Listener and returns a fatal *listener.CompileError the
// first time it hits an unrecoverable condition (an unknown function
// name).
type Lexer struct {
	src    []rune
	pos    int
	line   int
	col    int
	l      listener.Listener
}

// NewLexer creates a Lexer over source, reporting diagnostics to l.
func NewLexer(source string, l listener.Listener) *Lexer {
	return &Lexer{src: []rune(source), line: 1, col: 1, l: l}
}

// Lex scans the entire source and returns its Token stream, always
// terminated by a synthetic EndOfFile token. It returns the first fatal
// error encountered, if any; tokens collected up to that point are
// still returned since the caller may wish to show context.
func (lx *Lexer) Lex() ([]Token, error) {
	var toks []Token

	for {
		tok, err := lx.next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == EndOfFile {
			return toks, nil
		}
	}
}

func (lx *Lexer) next() (Token, error) {
	lx.skipWhitespace()

	if lx.atEnd() {
		return Token{Kind: EndOfFile, Pos: lx.position()}, nil
	}

	startPos := lx.position()
	c := lx.peek()

	switch {
	case c == '<':
		return lx.lexFunctionOrChevron(startPos)
	case unicode.IsDigit(c):
		return lx.lexNumber(startPos)
	case isIdentStart(c):
		return lx.lexIdentifier(startPos)
	}

	if kind, ok := singleCharTokens[c]; ok {
		lx.advance()
		return Token{Kind: kind, Lexeme: string(c), Pos: startPos}, nil
	}

	// Unknown character: recoverable. Report it and skip past it so
	// scanning can continue, then try again for the next token.
	lx.advance()
	lx.l.Warn(listener.New(listener.LexUnknownCharacter, listener.Position(startPos),
		"unknown character "+string(c)))
	return lx.next()
}

// lexFunctionOrChevron handles the `<` lookahead: either a `<name>`
// function form, or a bare LeftChevron when `<` is not immediately
// followed by an identifier start.
func (lx *Lexer) lexFunctionOrChevron(startPos Position) (Token, error) {
	lx.advance() // consume '<'

	if lx.atEnd() || !isIdentStart(lx.peek()) {
		return Token{Kind: LeftChevron, Lexeme: "<", Pos: startPos}, nil
	}

	nameStart := lx.pos
	for !lx.atEnd() && isIdentPart(lx.peek()) {
		lx.advance()
	}
	name := string(lx.src[nameStart:lx.pos])

	if lx.atEnd() || lx.peek() != '>' {
		return Token{}, listener.New(listener.ParseSyntax, listener.Position(startPos),
			"unterminated function form <"+name)
	}
	lx.advance() // consume '>'

	kind, ok := functionNames[name]
	if !ok {
		err := listener.New(listener.LexUnknownFunction, listener.Position(startPos),
			"unknown function name <"+name+">")
		lx.l.Fatal(err)
		return Token{}, err
	}

	return Token{Kind: kind, Lexeme: "<" + name + ">", Pos: startPos}, nil
}

func (lx *Lexer) lexNumber(startPos Position) (Token, error) {
	start := lx.pos
	for !lx.atEnd() && unicode.IsDigit(lx.peek()) {
		lx.advance()
	}

	isReal := false
	if !lx.atEnd() && lx.peek() == '.' && lx.pos+1 < len(lx.src) && unicode.IsDigit(lx.src[lx.pos+1]) {
		isReal = true
		lx.advance() // consume '.'
		for !lx.atEnd() && unicode.IsDigit(lx.peek()) {
			lx.advance()
		}
	}

	lexeme := string(lx.src[start:lx.pos])
	kind := Integer
	if isReal {
		kind = Real
	}
	return Token{Kind: kind, Lexeme: lexeme, Pos: startPos}, nil
}

func (lx *Lexer) lexIdentifier(startPos Position) (Token, error) {
	start := lx.pos
	for !lx.atEnd() && isIdentPart(lx.peek()) {
		lx.advance()
	}
	return Token{Kind: Identifier, Lexeme: string(lx.src[start:lx.pos]), Pos: startPos}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func (lx *Lexer) skipWhitespace() {
	for !lx.atEnd() {
		switch lx.peek() {
		case ' ', '\t', '\r':
			lx.advance()
		case '\n':
			lx.advance()
			lx.line++
			lx.col = 1
		default:
			return
		}
	}
}

func (lx *Lexer) atEnd() bool {
	return lx.pos >= len(lx.src)
}

func (lx *Lexer) peek() rune {
	return lx.src[lx.pos]
}

func (lx *Lexer) advance() rune {
	c := lx.src[lx.pos]
	lx.pos++
	lx.col++
	return c
}

func (lx *Lexer) position() Position {
	return Position{Line: lx.line, Col: lx.col}
}
