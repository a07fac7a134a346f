package parser

import "strings"

// Parser runs assembler pass 1: tokenize every source line, discover labels
// against a running location counter, and record each instruction/directive
// line for pass 2 (the encoder) to consume.
type Parser struct {
	filename  string
	errors    *ErrorList
	symbols   *SymbolTable
	addr      uint16
	originSet bool
}

func NewParser(filename string) *Parser {
	return &Parser{
		filename: filename,
		errors:   NewErrorList(),
		symbols:  NewSymbolTable(),
	}
}

// Parse tokenizes source line by line and builds the Program. Errors are
// collected, not returned early, so a single run reports every diagnostic
// in the file; check Program's accompanying *ErrorList.HasErrors() before
// handing the result to the encoder.
func (p *Parser) Parse(source string) (*Program, *ErrorList) {
	program := &Program{Symbols: p.symbols}

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		lx := NewLexer(raw, p.filename, lineNo)
		tokens := stripTrivia(lx.Tokenize())
		if len(tokens) == 0 {
			continue
		}
		p.processLine(program, tokens, lineNo, raw)
	}

	return program, p.errors
}

func stripTrivia(tokens []Token) []Token {
	out := tokens[:0:0]
	for _, t := range tokens {
		switch t.Kind {
		case TokenComment, TokenComma:
			continue
		default:
			out = append(out, t)
		}
	}
	return out
}

func (p *Parser) processLine(program *Program, tokens []Token, lineNo int, raw string) {
	pos := Position{Filename: p.filename, Line: lineNo, Column: 1}

	idx := 0
	label := ""
	if tokens[0].Kind != TokenOpcode && tokens[0].Kind != TokenDirective {
		label = tokens[0].Lexeme
		idx = 1
	}

	if label != "" {
		if ok, existing := p.symbols.Define(label, p.addr, tokens[0].Pos); !ok {
			p.errors.AddError(NewErrorWithContext(tokens[0].Pos, ErrorSemantic, label,
				"duplicate label, first defined at "+existing.Pos.String()))
		}
	}

	if idx >= len(tokens) {
		return // label-only line
	}

	mnemonicTok := tokens[idx]
	operands := tokens[idx+1:]

	switch mnemonicTok.Kind {
	case TokenDirective:
		p.processDirective(program, label, mnemonicTok, operands, pos, raw)
	case TokenOpcode:
		if !p.originSet {
			p.errors.AddError(NewErrorWithContext(pos, ErrorStructural, mnemonicTok.Lexeme,
				"instruction emitted before any .ORIG"))
			return
		}
		program.Instructions = append(program.Instructions, &Instruction{
			Label:    label,
			Mnemonic: mnemonicTok.Lexeme,
			Operands: operands,
			Pos:      pos,
			Address:  p.addr,
		})
		p.addr++

	default:
		p.errors.AddError(NewErrorWithContext(pos, ErrorSemantic, mnemonicTok.Lexeme,
			"expected an instruction or directive"))
	}
}

func (p *Parser) processDirective(program *Program, label string, tok Token, operands []Token, pos Position, raw string) {
	name := tok.Lexeme

	switch name {
	case ".ORIG":
		if len(operands) != 1 {
			p.errors.AddError(NewErrorWithContext(pos, ErrorSemantic, name, ".ORIG requires exactly one operand"))
			return
		}
		v, err := ParseNumber(operands[0])
		if err != nil || v < 0 || v > 0xFFFF {
			p.errors.AddError(NewErrorWithContext(pos, ErrorSemantic, name, "invalid origin address"))
			return
		}
		p.addr = uint16(v)
		p.originSet = true
		program.Directives = append(program.Directives, &Directive{
			Label: label, Name: name, Operands: operands, Pos: pos, Address: p.addr,
		})
		return

	case ".END":
		program.Directives = append(program.Directives, &Directive{
			Label: label, Name: name, Operands: operands, Pos: pos, Address: p.addr,
		})
		p.originSet = false
		return
	}

	if !p.originSet {
		p.errors.AddError(NewErrorWithContext(pos, ErrorStructural, name, "directive emitted before any .ORIG"))
		return
	}

	size, err := directiveSize(name, operands)
	if err != nil {
		p.errors.AddError(NewErrorWithContext(pos, ErrorSemantic, name, err.Error()))
		return
	}

	program.Directives = append(program.Directives, &Directive{
		Label: label, Name: name, Operands: operands, Pos: pos, Address: p.addr,
	})
	p.addr += size
}

// directiveSize returns the number of 16-bit words a directive (other than
// .ORIG/.END, which occupy none of their own) contributes to the location
// counter.
func directiveSize(name string, operands []Token) (uint16, error) {
	switch name {
	case ".FILL":
		if len(operands) != 1 {
			return 0, errInvalidOperand(name)
		}
		return 1, nil

	case ".BLKW":
		if len(operands) != 1 {
			return 0, errInvalidOperand(name)
		}
		n, err := ParseNumber(operands[0])
		if err != nil || n <= 0 || n > 0xFFFF {
			return 0, errInvalidOperand(name)
		}
		return uint16(n), nil

	case ".STRINGZ":
		if len(operands) != 1 || operands[0].Kind != TokenString {
			return 0, errInvalidOperand(name)
		}
		return uint16(len(operands[0].Lexeme) + 1), nil

	default:
		return 0, errUnknownDirective(name)
	}
}
