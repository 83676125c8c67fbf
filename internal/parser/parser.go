// Package parser implements Symphony's single-pass recursive-descent
// parser: it recognizes the grammar described in spec.md §6 and, as it
// goes, drives internal/directory (declarations, scope) and
// internal/quadgen (quadruple emission) directly — there is no separate
// AST stage, exactly as the original single-pass grammar never builds one.
//
// Grounded structurally on the token-stream-driven idiom of
// github.com/cwbudde/go-dws/internal/parser (current/peek token,
// one parseX method per grammar production, accumulate-and-return errors),
// adapted from its Pratt-precedence expression machinery (which assumes a
// later AST-walking pass) to a plain precedence-ladder of recursive calls,
// since Symphony's precedence order is fixed and this parser emits code
// immediately rather than building a tree to walk later.
package parser

import (
	"github.com/jorgelmarquez94/symphony/internal/cerrors"
	"github.com/jorgelmarquez94/symphony/internal/directory"
	"github.com/jorgelmarquez94/symphony/internal/lexer"
	"github.com/jorgelmarquez94/symphony/internal/memmap"
	"github.com/jorgelmarquez94/symphony/internal/quadgen"
	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

// Parser consumes a token stream and emits quadruples via its Generator.
type Parser struct {
	lex *lexer.Lexer
	dir *directory.Directory
	gen *quadgen.Generator

	cur, peek lexer.Token
}

// New creates a Parser over source, wiring a fresh Directory and Generator
// that share one address counter.
func New(source string) *Parser {
	counters := memmap.NewCounters()
	dir := directory.New(counters)
	gen := quadgen.New(dir, counters)
	p := &Parser{
		lex: lexer.New(source),
		dir: dir,
		gen: gen,
	}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.cur.Type != tt {
		return lexer.Token{}, cerrors.New(cerrors.Grammatical, p.cur.Pos,
			"expected %s, got %s %q", tt, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

// Parse runs the parser to completion and returns the compiled Program.
func (p *Parser) Parse() (*quadgen.Program, error) {
	if _, err := p.expect(lexer.PROGRAM); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ID); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	// Global variable declarations and function declarations may interleave
	// at the top level (spec.md's worked examples declare globals both
	// before and after the functions that use them); only once neither a
	// type keyword nor FUN starts the next token do we treat the rest as
	// the main body.
	for isTypeKeyword(p.cur.Type) || p.cur.Type == lexer.FUN {
		if p.cur.Type == lexer.FUN {
			if err := p.parseFunctionDecl(); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.parseVarDeclLine(true); err != nil {
			return nil, err
		}
	}

	p.gen.PatchMainGoto(p.gen.NextQuad())
	if err := p.parseStatements(lexer.EOF); err != nil {
		return nil, err
	}
	if len(p.lex.Errors()) > 0 {
		first := p.lex.Errors()[0]
		return nil, cerrors.New(cerrors.Grammatical, first.Pos, "%s", first.Msg)
	}
	return p.gen.Program(), nil
}

// --- declarations ----------------------------------------------------------

func isTypeKeyword(tt lexer.TokenType) bool {
	switch tt {
	case lexer.INT, lexer.DEC, lexer.CHAR, lexer.STR, lexer.BOOL:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTypeKeyword() (symtype.Type, error) {
	switch p.cur.Type {
	case lexer.INT:
		p.next()
		return symtype.INT, nil
	case lexer.DEC:
		p.next()
		return symtype.DEC, nil
	case lexer.CHAR:
		p.next()
		return symtype.CHAR, nil
	case lexer.STR:
		p.next()
		return symtype.STR, nil
	case lexer.BOOL:
		p.next()
		return symtype.BOOL, nil
	default:
		return 0, cerrors.New(cerrors.Grammatical, p.cur.Pos, "expected a type keyword, got %s", p.cur.Type)
	}
}

func (p *Parser) parseLocalDecls() error {
	for isTypeKeyword(p.cur.Type) {
		if err := p.parseVarDeclLine(false); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseVarDeclLine(isGlobal bool) error {
	typ, err := p.parseTypeKeyword()
	if err != nil {
		return err
	}
	for {
		nameTok, err := p.expect(lexer.ID)
		if err != nil {
			return err
		}
		decl := directory.Declaration{Type: typ, Name: nameTok.Literal}
		if p.cur.Type == lexer.LBRACKET {
			p.next()
			sizeTok := p.cur
			switch sizeTok.Type {
			case lexer.INT_VAL, lexer.DEC_VAL, lexer.CHAR_VAL, lexer.STR_VAL, lexer.BOOL_VAL:
				p.next()
			default:
				return cerrors.New(cerrors.Grammatical, sizeTok.Pos,
					"expected an array size literal, got %s %q", sizeTok.Type, sizeTok.Literal)
			}
			decl.IsArray = true
			decl.SizeIsInt = sizeTok.Type == lexer.INT_VAL
			if decl.SizeIsInt {
				decl.ArraySize = parseIntLiteral(sizeTok.Literal)
			}
			if _, err := p.expect(lexer.RBRACKET); err != nil {
				return err
			}
		}
		if err := p.dir.DeclareVariable(decl, isGlobal, nameTok.Pos); err != nil {
			return err
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
			continue
		}
		break
	}
	_, err = p.expect(lexer.SEMICOLON)
	return err
}

func parseIntLiteral(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// --- functions ---------------------------------------------------------

func (p *Parser) parseFunctionDecl() error {
	pos := p.cur.Pos
	p.next() // consume FUN

	var returnType symtype.Type
	isVoid := false
	if p.cur.Type == lexer.VOID {
		isVoid = true
		p.next()
	} else {
		t, err := p.parseTypeKeyword()
		if err != nil {
			return err
		}
		returnType = t
	}

	nameTok, err := p.expect(lexer.ID)
	if err != nil {
		return err
	}

	if err := p.gen.BeginFunction(returnType, isVoid, nameTok.Literal, pos); err != nil {
		return err
	}

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return err
	}
	if err := p.parseParamList(); err != nil {
		return err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	if err := p.parseLocalDecls(); err != nil {
		return err
	}
	if err := p.parseStatements(lexer.RBRACE); err != nil {
		return err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return err
	}
	return p.gen.EndFunction(pos)
}

func (p *Parser) parseParamList() error {
	if p.cur.Type == lexer.RPAREN {
		return nil
	}
	for {
		typ, err := p.parseTypeKeyword()
		if err != nil {
			return err
		}
		nameTok, err := p.expect(lexer.ID)
		if err != nil {
			return err
		}
		if err := p.dir.DeclareParameter(directory.Declaration{Type: typ, Name: nameTok.Literal}, nameTok.Pos); err != nil {
			return err
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
			continue
		}
		break
	}
	return nil
}

// --- statements ----------------------------------------------------------

func (p *Parser) parseStatements(end lexer.TokenType) error {
	for p.cur.Type != end && p.cur.Type != lexer.EOF {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseStatement() error {
	switch p.cur.Type {
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.BREAK:
		pos := p.cur.Pos
		p.next()
		if err := p.gen.Break(pos); err != nil {
			return err
		}
		_, err := p.expect(lexer.SEMICOLON)
		return err
	case lexer.ID, lexer.SPECIAL_ID:
		return p.parseExprStatement()
	default:
		return cerrors.New(cerrors.Grammatical, p.cur.Pos, "unexpected token %s %q at start of statement", p.cur.Type, p.cur.Literal)
	}
}

func (p *Parser) parseIf() error {
	pos := p.cur.Pos
	p.next() // IF
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return err
	}
	if err := p.parseExpression(); err != nil {
		return err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return err
	}
	if err := p.gen.BeginIf(pos); err != nil {
		return err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	if err := p.parseStatements(lexer.RBRACE); err != nil {
		return err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return err
	}

	depth := 1
	for p.cur.Type == lexer.ELSEIF {
		p.gen.BeginElse()
		epos := p.cur.Pos
		p.next() // ELSEIF
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return err
		}
		if err := p.parseExpression(); err != nil {
			return err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return err
		}
		if err := p.gen.BeginIf(epos); err != nil {
			return err
		}
		if _, err := p.expect(lexer.LBRACE); err != nil {
			return err
		}
		if err := p.parseStatements(lexer.RBRACE); err != nil {
			return err
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return err
		}
		depth++
	}
	if p.cur.Type == lexer.ELSE {
		p.gen.BeginElse()
		p.next() // ELSE
		if _, err := p.expect(lexer.LBRACE); err != nil {
			return err
		}
		if err := p.parseStatements(lexer.RBRACE); err != nil {
			return err
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return err
		}
	}
	for i := 0; i < depth; i++ {
		p.gen.EndIf()
	}
	return nil
}

func (p *Parser) parseWhile() error {
	pos := p.cur.Pos
	p.next() // WHILE
	p.gen.BeginWhile()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return err
	}
	if err := p.parseExpression(); err != nil {
		return err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return err
	}
	if err := p.gen.WhileCondition(pos); err != nil {
		return err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	if err := p.parseStatements(lexer.RBRACE); err != nil {
		return err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return err
	}
	p.gen.EndWhile()
	return nil
}

func (p *Parser) parseReturn() error {
	pos := p.cur.Pos
	p.next() // RETURN
	if err := p.parseExpression(); err != nil {
		return err
	}
	if err := p.gen.Return(pos); err != nil {
		return err
	}
	_, err := p.expect(lexer.SEMICOLON)
	return err
}

func (p *Parser) parseExprStatement() error {
	tok := p.cur

	if tok.Type == lexer.SPECIAL_ID {
		p.next()
		if err := p.parseCall(tok.Literal, tok.Pos, true); err != nil {
			return err
		}
		p.gen.Discard()
		_, err := p.expect(lexer.SEMICOLON)
		return err
	}

	name := tok.Literal
	pos := tok.Pos
	p.next() // consume ID

	switch p.cur.Type {
	case lexer.LPAREN:
		if err := p.parseCall(name, pos, false); err != nil {
			return err
		}
		if p.dir.Functions[name] != nil && !p.dir.Functions[name].IsVoid {
			p.gen.Discard()
		}
		_, err := p.expect(lexer.SEMICOLON)
		return err

	case lexer.LBRACKET:
		p.next()
		if err := p.parseExpression(); err != nil {
			return err
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return err
		}
		v, err := p.dir.GetVariable(name, pos)
		if err != nil {
			return err
		}
		ptr, elemType, err := p.gen.ArrayElementAddress(v, pos)
		if err != nil {
			return err
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return err
		}
		if err := p.parseExpression(); err != nil {
			return err
		}
		if err := p.gen.Assign(-ptr, elemType, pos); err != nil {
			return err
		}
		_, err = p.expect(lexer.SEMICOLON)
		return err

	case lexer.ASSIGN:
		v, err := p.dir.GetVariable(name, pos)
		if err != nil {
			return err
		}
		p.next()
		if err := p.parseExpression(); err != nil {
			return err
		}
		if err := p.gen.Assign(v.Address, v.Type, pos); err != nil {
			return err
		}
		_, err = p.expect(lexer.SEMICOLON)
		return err

	case lexer.INCREMENT, lexer.DECREMENT:
		op := symtype.OpIncrement
		if p.cur.Type == lexer.DECREMENT {
			op = symtype.OpDecrement
		}
		v, err := p.dir.GetVariable(name, pos)
		if err != nil {
			return err
		}
		p.gen.PushVariable(v)
		if err := p.gen.OperateUnary(op, pos); err != nil {
			return err
		}
		p.gen.Discard()
		p.next()
		_, err = p.expect(lexer.SEMICOLON)
		return err

	default:
		return cerrors.New(cerrors.Grammatical, p.cur.Pos, "unexpected token %s after identifier %q", p.cur.Type, name)
	}
}

// parseCall parses "(" args ")" for a call already past its name token and
// emits it; callers are responsible for the trailing semicolon.
func (p *Parser) parseCall(name string, pos lexer.Position, special bool) error {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return err
	}
	p.gen.BeginCall(name, special)

	var sig quadgen.Signature
	hasSig := false
	if special {
		sig, hasSig = quadgen.Signatures[name]
	}

	if p.cur.Type != lexer.RPAREN {
		i := 0
		for {
			byAddr := hasSig && i < len(sig.ParamIsAddress) && sig.ParamIsAddress[i]
			var err error
			if byAddr {
				err = p.parseAddressableArg()
			} else {
				err = p.parseExpression()
			}
			if err != nil {
				return err
			}
			p.gen.Arg()
			i++
			if p.cur.Type == lexer.COMMA {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return err
	}

	if special {
		return p.gen.EndSpecialCall(pos)
	}
	fn, err := p.dir.GetFunction(name, pos)
	if err != nil {
		return err
	}
	funcIdx, ok := p.gen.FuncIndex(name)
	if !ok {
		return cerrors.New(cerrors.Undeclared, pos, "function %q was not defined beforehand", name)
	}
	return p.gen.EndUserCall(fn, funcIdx, pos)
}

// parseAddressableArg parses a single bare variable or array-element
// reference — no operators, no nested expression — for a built-in
// parameter that needs a genuine storage location to write into (copy's
// destination). A computed value like "x+1" has no address the VM could
// store back through, so it is rejected here rather than at the VM.
func (p *Parser) parseAddressableArg() error {
	if p.cur.Type != lexer.ID {
		return cerrors.New(cerrors.TypeError, p.cur.Pos,
			"this argument must be a variable or array element, not an expression")
	}
	return p.parsePrimary()
}

// --- expressions -----------------------------------------------------------
//
// Precedence, loosest (outermost recursion) to tightest (innermost),
// exactly as spec.md §6 orders it: exponentiation, unary sign, and/or,
// relational, additive, multiplicative, unary not, primary.

func (p *Parser) parseExpression() error {
	return p.parseExponent()
}

func (p *Parser) parseExponent() error {
	if err := p.parseUnarySign(); err != nil {
		return err
	}
	if p.cur.Type == lexer.EXPONENTIATION {
		pos := p.cur.Pos
		p.next()
		if err := p.parseExponent(); err != nil { // right-associative
			return err
		}
		return p.gen.ApplyBinary(symtype.OpExp, pos)
	}
	return nil
}

func (p *Parser) parseUnarySign() error {
	if p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		op := symtype.OpUnaryPlus
		if p.cur.Type == lexer.MINUS {
			op = symtype.OpUnaryMin
		}
		pos := p.cur.Pos
		p.next()
		if err := p.parseUnarySign(); err != nil {
			return err
		}
		return p.gen.OperateUnary(op, pos)
	}
	return p.parseAndOr()
}

func (p *Parser) parseAndOr() error {
	if err := p.parseRelational(); err != nil {
		return err
	}
	for p.cur.Type == lexer.AND || p.cur.Type == lexer.OR {
		op := symtype.OpAnd
		if p.cur.Type == lexer.OR {
			op = symtype.OpOr
		}
		pos := p.cur.Pos
		p.next()
		if err := p.parseRelational(); err != nil {
			return err
		}
		if err := p.gen.ApplyBinary(op, pos); err != nil {
			return err
		}
	}
	return nil
}

var relOps = map[lexer.TokenType]symtype.Op{
	lexer.GT: symtype.OpGT, lexer.LT: symtype.OpLT,
	lexer.GREATER_EQUAL_THAN: symtype.OpGE, lexer.LESS_EQUAL_THAN: symtype.OpLE,
	lexer.EQUALS: symtype.OpEquals,
}

func (p *Parser) parseRelational() error {
	if err := p.parseAddSub(); err != nil {
		return err
	}
	for {
		op, ok := relOps[p.cur.Type]
		if !ok {
			return nil
		}
		pos := p.cur.Pos
		p.next()
		if err := p.parseAddSub(); err != nil {
			return err
		}
		if err := p.gen.ApplyBinary(op, pos); err != nil {
			return err
		}
	}
}

func (p *Parser) parseAddSub() error {
	if err := p.parseMulDivMod(); err != nil {
		return err
	}
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		op := symtype.OpAdd
		if p.cur.Type == lexer.MINUS {
			op = symtype.OpSub
		}
		pos := p.cur.Pos
		p.next()
		if err := p.parseMulDivMod(); err != nil {
			return err
		}
		if err := p.gen.ApplyBinary(op, pos); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseMulDivMod() error {
	if err := p.parseUnaryNot(); err != nil {
		return err
	}
	for p.cur.Type == lexer.ASTERISK || p.cur.Type == lexer.SLASH || p.cur.Type == lexer.MOD {
		var op symtype.Op
		switch p.cur.Type {
		case lexer.ASTERISK:
			op = symtype.OpMul
		case lexer.SLASH:
			op = symtype.OpDiv
		case lexer.MOD:
			op = symtype.OpMod
		}
		pos := p.cur.Pos
		p.next()
		if err := p.parseUnaryNot(); err != nil {
			return err
		}
		if err := p.gen.ApplyBinary(op, pos); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseUnaryNot() error {
	if p.cur.Type == lexer.NOT {
		pos := p.cur.Pos
		p.next()
		if err := p.parseUnaryNot(); err != nil {
			return err
		}
		return p.gen.OperateUnary(symtype.OpNot, pos)
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() error {
	tok := p.cur
	switch tok.Type {
	case lexer.INT_VAL:
		p.next()
		p.gen.PushConstant(symtype.INT, tok.Literal)
		return nil
	case lexer.DEC_VAL:
		p.next()
		p.gen.PushConstant(symtype.DEC, tok.Literal)
		return nil
	case lexer.CHAR_VAL:
		p.next()
		p.gen.PushConstant(symtype.CHAR, tok.Literal)
		return nil
	case lexer.STR_VAL:
		p.next()
		p.gen.PushConstant(symtype.STR, tok.Literal)
		return nil
	case lexer.BOOL_VAL:
		p.next()
		p.gen.PushConstant(symtype.BOOL, tok.Literal)
		return nil
	case lexer.LPAREN:
		p.next()
		if err := p.parseExpression(); err != nil {
			return err
		}
		_, err := p.expect(lexer.RPAREN)
		return err
	case lexer.SPECIAL_ID:
		p.next()
		return p.parseCall(tok.Literal, tok.Pos, true)
	case lexer.ID:
		p.next()
		name, pos := tok.Literal, tok.Pos
		switch p.cur.Type {
		case lexer.LPAREN:
			return p.parseCall(name, pos, false)
		case lexer.LBRACKET:
			p.next()
			if err := p.parseExpression(); err != nil {
				return err
			}
			if _, err := p.expect(lexer.RBRACKET); err != nil {
				return err
			}
			v, err := p.dir.GetVariable(name, pos)
			if err != nil {
				return err
			}
			ptr, elemType, err := p.gen.ArrayElementAddress(v, pos)
			if err != nil {
				return err
			}
			p.gen.PushPointer(ptr, elemType)
			return nil
		default:
			v, err := p.dir.GetVariable(name, pos)
			if err != nil {
				return err
			}
			p.gen.PushVariable(v)
			return nil
		}
	default:
		return cerrors.New(cerrors.Grammatical, tok.Pos, "unexpected token %s %q in expression", tok.Type, tok.Literal)
	}
}
