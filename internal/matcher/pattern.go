package matcher

import (
	"github.com/dekarrin/strem/internal/automaton"
	"github.com/dekarrin/strem/internal/compiler"
	"github.com/dekarrin/strem/internal/datastream"
	"github.com/dekarrin/strem/internal/listener"
	"github.com/dekarrin/strem/internal/monitor"
)

// Match is a half-open index interval into the frame slice a matcher
// was given.
type Match struct {
	Start int
	End   int
}

// Pattern is a compiled SpRE: the forward and reverse DFAs plus the
// symbol table needed to evaluate which symbols hold for a given
// frame. It is built once per pattern and is immutable and safe to
// share across any number of offline/online matchers.
type Pattern struct {
	Forward *automaton.DFA
	Reverse *automaton.DFA
	Table   *compiler.SymbolTable
}

// Compile runs the full front end — lex, parse, symbolize, serialize,
// compile — over source and returns the resulting Pattern.
func Compile(source string, l listener.Listener) (*Pattern, error) {
	lx := compiler.NewLexer(source, l)
	toks, err := lx.Lex()
	if err != nil {
		return nil, err
	}

	parser := compiler.NewParser(toks, l)
	ast, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	symbolizer := compiler.NewSymbolizer(l)
	symbolic, table, err := symbolizer.Symbolize(ast)
	if err != nil {
		return nil, err
	}

	regex := compiler.Serialize(symbolic)

	fwd, rev, err := automaton.Compile(regex)
	if err != nil {
		return nil, err
	}

	return &Pattern{Forward: fwd, Reverse: rev, Table: table}, nil
}

// symbols returns Σ_f, the set of alphabet symbols whose formulas hold
// against frame.
func (p *Pattern) symbols(frame datastream.Frame) []byte {
	var syms []byte
	for _, e := range p.Table.Entries {
		if monitor.EvaluateS4u(e.Formula, frame) {
			syms = append(syms, e.Symbol)
		}
	}
	return syms
}
