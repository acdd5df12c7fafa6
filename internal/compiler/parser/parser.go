// Package parser turns a Cadenza token stream into a Program AST by
// recursive descent: an explicit precedence ladder for expressions, a
// straight-line switch over keywords for declarations and statements, and
// sub-lexer/sub-parser re-entry for the raw expression fragments an
// interpolated string carries.
//
// Every parse function returns (node, error); the first error aborts the
// parse entirely, matching the positioned first-error-wins contract the core
// exposes to its driver.
package parser

import (
	"regexp"
	"strings"

	"github.com/cadenzalang/cadenza/internal/compiler/ast"
	"github.com/cadenzalang/cadenza/internal/compiler/cerrors"
	"github.com/cadenzalang/cadenza/internal/compiler/lexer"
	"github.com/cadenzalang/cadenza/internal/compiler/token"
)

type Parser struct {
	source string
	toks   []token.Token
	pos    int
}

// Parse lexes and parses a complete Cadenza source file into a Program.
func Parse(source string) (*ast.Program, error) {
	toks, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	p := &Parser{source: source, toks: toks}
	return p.parseProgram()
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

func (p *Parser) errf(format string, args ...any) error {
	return cerrors.New("parser", p.cur().Pos, format, args...)
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.cur().Type != t {
		return token.Token{}, p.errf("expected %s, got %s", t, p.cur().Type)
	}
	tok := p.cur()
	p.advance()
	return tok, nil
}

func (p *Parser) skipSemicolon() {
	if p.cur().Type == token.SEMICOLON {
		p.advance()
	}
}

// ---------------------------------------------------------------------------
// Top level

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur().Type != token.EOF {
		decl, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}

func (p *Parser) parseTopLevelDecl() (ast.Decl, error) {
	var spec *ast.SpecBlock
	if p.cur().Type == token.SPEC {
		s, err := p.parseSpecBlock()
		if err != nil {
			return nil, err
		}
		spec = s
	}

	switch p.cur().Type {
	case token.MODULE:
		return p.parseModuleDecl(spec)
	case token.IMPORT:
		if spec != nil {
			return nil, p.errf("a specification block must precede a function or module declaration")
		}
		return p.parseImportDecl()
	case token.EXPORT:
		if p.peek().Type == token.FUNCTION || p.peek().Type == token.PURE {
			return p.parseFunctionDecl(spec)
		}
		if spec != nil {
			return nil, p.errf("a specification block must precede a function or module declaration")
		}
		return p.parseExportDecl()
	case token.PURE, token.FUNCTION:
		return p.parseFunctionDecl(spec)
	case token.COMPONENT, token.APP_STATE, token.API_CLIENT:
		if spec != nil {
			return nil, p.errf("a specification block must precede a function or module declaration")
		}
		return p.parseInertDecl()
	default:
		return nil, p.errf("expected a declaration, got %s", p.cur().Type)
	}
}

// ---------------------------------------------------------------------------
// Specification blocks

var specFieldRe = regexp.MustCompile(`(intent|rules|postconditions|source_doc)\s*:`)
var quotedStringRe = regexp.MustCompile(`"([^"]*)"`)

func (p *Parser) parseSpecBlock() (*ast.SpecBlock, error) {
	tok := p.cur()
	p.advance()
	raw, _ := tok.Literal.(string)
	return parseSpecBody(raw, tok.Pos)
}

// parseSpecBody splits the verbatim text captured between `/*spec` and
// `spec*/` into its intent/rules/postconditions/source_doc fields, e.g.
// `intent: "add two" rules: - "commutative" postconditions: - "result = a+b"`.
func parseSpecBody(raw string, pos token.Position) (*ast.SpecBlock, error) {
	locs := specFieldRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return nil, cerrors.New("parser", pos, "specification block missing required 'intent' field")
	}

	block := &ast.SpecBlock{Pos: pos}
	haveIntent := false

	for i, loc := range locs {
		name := raw[loc[2]:loc[3]]
		valEnd := len(raw)
		if i+1 < len(locs) {
			valEnd = locs[i+1][0]
		}
		value := raw[loc[1]:valEnd]

		switch name {
		case "intent":
			m := quotedStringRe.FindStringSubmatch(value)
			if m == nil {
				return nil, cerrors.New("parser", pos, "specification block has 'intent' with no quoted value")
			}
			block.Intent = m[1]
			haveIntent = true
		case "source_doc":
			if m := quotedStringRe.FindStringSubmatch(value); m != nil {
				block.SourceDoc = m[1]
			}
		case "rules":
			for _, m := range quotedStringRe.FindAllStringSubmatch(value, -1) {
				block.Rules = append(block.Rules, m[1])
			}
		case "postconditions":
			for _, m := range quotedStringRe.FindAllStringSubmatch(value, -1) {
				block.Postconditions = append(block.Postconditions, m[1])
			}
		}
	}

	if !haveIntent {
		return nil, cerrors.New("parser", pos, "specification block missing required 'intent' field")
	}
	return block, nil
}

// ---------------------------------------------------------------------------
// Declarations

func (p *Parser) parseModuleDecl(spec *ast.SpecBlock) (*ast.ModuleDecl, error) {
	pos := p.cur().Pos
	p.advance() // past 'module'

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	mod := &ast.ModuleDecl{Pos: pos, Name: nameTok.Lexeme, Spec: spec}

	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, p.errf("unterminated module %s", nameTok.Lexeme)
		}
		var innerSpec *ast.SpecBlock
		if p.cur().Type == token.SPEC {
			s, err := p.parseSpecBlock()
			if err != nil {
				return nil, err
			}
			innerSpec = s
		}
		decl, err := p.parseModuleMember(innerSpec)
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, decl)
		if fn, ok := decl.(*ast.FunctionDecl); ok && fn.Exported {
			mod.Exports = append(mod.Exports, fn.Name)
		}
	}
	p.advance() // consume '}'

	return mod, nil
}

func (p *Parser) parseModuleMember(spec *ast.SpecBlock) (ast.Decl, error) {
	switch p.cur().Type {
	case token.EXPORT:
		if p.peek().Type == token.FUNCTION || p.peek().Type == token.PURE {
			return p.parseFunctionDecl(spec)
		}
		return nil, p.errf("expected a function declaration inside a module, got %s", p.cur().Type)
	case token.PURE, token.FUNCTION:
		return p.parseFunctionDecl(spec)
	default:
		return nil, p.errf("expected a function declaration inside a module, got %s", p.cur().Type)
	}
}

func (p *Parser) parseImportDecl() (*ast.ImportDecl, error) {
	pos := p.cur().Pos
	p.advance() // past 'import'

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.ImportDecl{Pos: pos, Module: nameTok.Lexeme}

	if p.cur().Type != token.DOT {
		return decl, nil
	}
	p.advance() // consume '.'

	switch p.cur().Type {
	case token.ASTERISK:
		p.advance()
		decl.Wildcard = true
		return decl, nil
	case token.LBRACE:
		p.advance()
		names, err := p.parseImportNameList()
		if err != nil {
			return nil, err
		}
		decl.Names = names
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return decl, nil
	default:
		return nil, p.errf("expected '*' or '{' after '.', got %s", p.cur().Type)
	}
}

func (p *Parser) parseImportNameList() ([]string, error) {
	var names []string
	for {
		if p.cur().Type == token.ASTERISK {
			names = append(names, "*")
			p.advance()
		} else {
			tok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			names = append(names, tok.Lexeme)
		}
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *Parser) parseExportDecl() (*ast.ExportDecl, error) {
	pos := p.cur().Pos
	p.advance() // past 'export'

	decl := &ast.ExportDecl{Pos: pos}

	if p.cur().Type == token.LBRACE {
		p.advance()
		for p.cur().Type != token.RBRACE {
			tok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			decl.Names = append(decl.Names, tok.Lexeme)
			if p.cur().Type == token.COMMA {
				p.advance()
			}
		}
		p.advance() // consume '}'
		return decl, nil
	}

	tok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl.Names = append(decl.Names, tok.Lexeme)
	for p.cur().Type == token.COMMA {
		p.advance()
		tok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		decl.Names = append(decl.Names, tok.Lexeme)
	}
	return decl, nil
}

// parseFunctionDecl handles all four surface forms uniformly: `function`,
// `pure function`, `export function`, `export pure function`.
func (p *Parser) parseFunctionDecl(spec *ast.SpecBlock) (*ast.FunctionDecl, error) {
	pos := p.cur().Pos

	exported := false
	if p.cur().Type == token.EXPORT {
		exported = true
		p.advance()
	}
	pure := false
	if p.cur().Type == token.PURE {
		pure = true
		p.advance()
	}
	if _, err := p.expect(token.FUNCTION); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	fn := &ast.FunctionDecl{Pos: pos, Name: nameTok.Lexeme, Pure: pure, Exported: exported, Spec: spec}

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	fn.Params = params

	if p.cur().Type == token.USES {
		p.advance()
		if _, err := p.expect(token.LBRACKET); err != nil {
			return nil, err
		}
		effects, err := p.parseEffectList()
		if err != nil {
			return nil, err
		}
		fn.Effects = effects
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
	}

	if p.cur().Type == token.ARROW {
		p.advance()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.ReturnType = typ
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	return fn, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	var params []ast.Param
	if p.cur().Type == token.RPAREN {
		p.advance()
		return params, nil
	}
	for {
		pos := p.cur().Pos
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Pos: pos, Name: nameTok.Lexeme, Type: typ})
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseEffectList() ([]string, error) {
	var effects []string
	if p.cur().Type == token.RBRACKET {
		return effects, nil
	}
	for {
		tok := p.cur()
		if !token.IsEffectName(tok.Type) {
			return nil, p.errf("expected an effect name, got %s", tok.Type)
		}
		effects = append(effects, tok.Lexeme)
		p.advance()
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	return effects, nil
}

// parseType parses a type's written form, recursing into generic type
// arguments for Result<T,E>/List<T>/Option<T> and any other generic name.
func (p *Parser) parseType() (*ast.Type, error) {
	pos := p.cur().Pos
	name, err := p.typeNameToken()
	if err != nil {
		return nil, err
	}
	t := &ast.Type{Pos: pos, Name: name}

	if p.cur().Type == token.LT {
		p.advance()
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		t.Args = append(t.Args, arg)
		for p.cur().Type == token.COMMA {
			p.advance()
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, arg)
		}
		if _, err := p.expect(token.GT); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (p *Parser) typeNameToken() (string, error) {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT, token.RESULT, token.OPTION, token.LIST,
		token.T_STRING, token.T_INT, token.T_BOOL, token.T_UNIT:
		p.advance()
		return tok.Lexeme, nil
	default:
		return "", p.errf("expected a type name, got %s", tok.Type)
	}
}

// parseInertDecl handles component/app_state/api_client declarations: these
// are recognized but UI-side, out of the core's lowering scope, so the body
// is captured verbatim rather than structurally parsed.
func (p *Parser) parseInertDecl() (ast.Decl, error) {
	kind := p.cur().Type
	pos := p.cur().Pos
	p.advance() // past keyword

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	openBrace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	body, err := p.captureBalancedBody(openBrace)
	if err != nil {
		return nil, err
	}

	switch kind {
	case token.COMPONENT:
		return &ast.ComponentDecl{Pos: pos, Name: nameTok.Lexeme, Body: body}, nil
	case token.APP_STATE:
		return &ast.AppStateDecl{Pos: pos, Name: nameTok.Lexeme, Body: body}, nil
	default:
		return &ast.ApiClientDecl{Pos: pos, Name: nameTok.Lexeme, Body: body}, nil
	}
}

// captureBalancedBody records the source slice between the already-consumed
// opening brace and its matching close, tracking nesting at the token level
// so a balanced `{`/`}` pair nested in the inert body doesn't end it early.
func (p *Parser) captureBalancedBody(openBrace token.Token) (string, error) {
	start := openBrace.Pos.Offset + len(openBrace.Lexeme)
	depth := 1
	for {
		switch p.cur().Type {
		case token.EOF:
			return "", cerrors.New("parser", openBrace.Pos, "unterminated body starting at line %d", openBrace.Pos.Line)
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				end := p.cur().Pos.Offset
				p.advance()
				return strings.TrimSpace(p.source[start:end]), nil
			}
		}
		p.advance()
	}
}

// ---------------------------------------------------------------------------
// Statements

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, p.errf("unterminated block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Type {
	case token.RETURN:
		return p.parseReturnStmt()
	case token.LET:
		return p.parseLetStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.GUARD:
		return p.parseGuardStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	pos := p.cur().Pos
	p.advance() // past 'return'

	if p.cur().Type == token.RBRACE || p.cur().Type == token.EOF || p.cur().Type == token.SEMICOLON {
		p.skipSemicolon()
		return &ast.ReturnStmt{Pos: pos}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSemicolon()
	return &ast.ReturnStmt{Pos: pos, Value: expr}, nil
}

func (p *Parser) parseLetStmt() (*ast.LetStmt, error) {
	pos := p.cur().Pos
	p.advance() // past 'let'

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt := &ast.LetStmt{Pos: pos, Name: nameTok.Lexeme}

	if p.cur().Type == token.COLON {
		p.advance()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		stmt.Type = typ
	}

	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt.Value = expr
	p.skipSemicolon()
	return stmt, nil
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	pos := p.cur().Pos
	p.advance() // past 'if'

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}

	if p.cur().Type == token.ELSE {
		p.advance()
		if p.cur().Type == token.IF {
			nested, err := p.parseIfStmt()
			if err != nil {
				return nil, err
			}
			stmt.Else = []ast.Stmt{nested}
			return stmt, nil
		}
		if _, err := p.expect(token.LBRACE); err != nil {
			return nil, err
		}
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}
	return stmt, nil
}

func (p *Parser) parseGuardStmt() (*ast.GuardStmt, error) {
	pos := p.cur().Pos
	p.advance() // past 'guard'

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt := &ast.GuardStmt{Pos: pos, Cond: cond}

	if p.cur().Type == token.ELSE {
		p.advance()
		if _, err := p.expect(token.LBRACE); err != nil {
			return nil, err
		}
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}
	p.skipSemicolon()
	return stmt, nil
}

func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	pos := p.cur().Pos
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSemicolon()
	return &ast.ExprStmt{Pos: pos, Value: expr}, nil
}

// ---------------------------------------------------------------------------
// Expressions
//
// The ten precedence levels are an explicit descent ladder rather than a
// generic Pratt table: `?` is both the ternary operator and the postfix
// error-propagation operator, and a shared-token precedence map can't
// disambiguate them on its own (see questionIsPropagate below).

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (ast.Expr, error) {
	pos := p.cur().Pos
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == token.QUESTION {
		p.advance()
		thenExpr, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{Pos: pos, Cond: cond, Then: thenExpr, Else: elseExpr}, nil
	}
	return cond, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.OR {
		opPos := p.cur().Pos
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: opPos, Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.AND {
		opPos := p.cur().Pos
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: opPos, Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.EQ || p.cur().Type == token.NOT_EQ {
		op := string(p.cur().Type)
		opPos := p.cur().Pos
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: opPos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case token.LT, token.LT_EQ, token.GT, token.GT_EQ:
			op := string(p.cur().Type)
			opPos := p.cur().Pos
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryExpr{Pos: opPos, Op: op, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.PLUS || p.cur().Type == token.MINUS {
		op := string(p.cur().Type)
		opPos := p.cur().Pos
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: opPos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case token.ASTERISK, token.SLASH, token.PERCENT:
			op := string(p.cur().Type)
			opPos := p.cur().Pos
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryExpr{Pos: opPos, Op: op, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur().Type == token.BANG || p.cur().Type == token.MINUS {
		opPos := p.cur().Pos
		op := string(p.cur().Type)
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Pos: opPos, Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// questionIsPropagate decides, by looking at what follows a `?`, whether it
// is the postfix error-propagation operator (bound tightly to the preceding
// value, per `f().x?[0]`) rather than the start of a ternary's "then" half.
// A `?` followed by a token that can only continue an existing expression
// (an operator, a postfix continuation, or a closer) is propagation; a `?`
// followed by a token that starts a new primary begins a ternary instead.
func (p *Parser) questionIsPropagate() bool {
	switch p.peek().Type {
	case token.DOT, token.LBRACKET, token.QUESTION,
		token.RPAREN, token.RBRACKET, token.RBRACE,
		token.COMMA, token.SEMICOLON, token.EOF,
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND, token.OR:
		return true
	default:
		return false
	}
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case token.DOT:
			dotPos := p.cur().Pos
			p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			if p.cur().Type == token.LPAREN {
				p.advance()
				args, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				expr = &ast.MethodCallExpr{Pos: dotPos, Receiver: expr, Method: nameTok.Lexeme, Args: args}
			} else {
				expr = &ast.MemberExpr{Pos: dotPos, Receiver: expr, Name: nameTok.Lexeme}
			}
		case token.LBRACKET:
			brPos := p.cur().Pos
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Pos: brPos, Receiver: expr, Index: idx}
		case token.QUESTION:
			if !p.questionIsPropagate() {
				return expr, nil
			}
			qPos := p.cur().Pos
			p.advance()
			expr = &ast.PropagateExpr{Pos: qPos, Value: expr}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.IntLit{Pos: tok.Pos, Value: tok.Literal.(int64)}, nil
	case token.DECIMAL:
		p.advance()
		return &ast.DecimalLit{Pos: tok.Pos, Value: tok.Literal.(float64)}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{Pos: tok.Pos, Value: tok.Literal.(string)}, nil
	case token.ISTRING:
		p.advance()
		return p.parseInterpolation(tok)
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Pos: tok.Pos, Value: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Pos: tok.Pos, Value: false}, nil
	case token.IDENT:
		p.advance()
		if p.cur().Type == token.LPAREN {
			p.advance()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpr{Pos: tok.Pos, Name: tok.Lexeme, Args: args}, nil
		}
		return &ast.Ident{Pos: tok.Pos, Name: tok.Lexeme}, nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBRACKET:
		return p.parseListLit(tok)
	case token.OK:
		return p.parseConstructorExpr(tok, "Ok")
	case token.ERRORK:
		return p.parseConstructorExpr(tok, "Error")
	case token.SOME:
		return p.parseConstructorExpr(tok, "Some")
	case token.NONE:
		p.advance()
		return &ast.NoneExpr{Pos: tok.Pos}, nil
	case token.MATCH:
		return p.parseMatchExpr(tok)
	default:
		return nil, p.errf("expected an expression, got %s", tok.Type)
	}
}

func (p *Parser) parseConstructorExpr(tok token.Token, kind string) (ast.Expr, error) {
	p.advance() // past the constructor keyword
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	switch kind {
	case "Ok":
		return &ast.OkExpr{Pos: tok.Pos, Value: value}, nil
	case "Error":
		return &ast.ErrorExpr{Pos: tok.Pos, Value: value}, nil
	default:
		return &ast.SomeExpr{Pos: tok.Pos, Value: value}, nil
	}
}

func (p *Parser) parseArgList() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.cur().Type == token.RPAREN {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseListLit(tok token.Token) (ast.Expr, error) {
	p.advance() // past '['
	lit := &ast.ListLit{Pos: tok.Pos}
	if p.cur().Type == token.RBRACKET {
		p.advance()
		return lit, nil
	}
	for {
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, el)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseInterpolation converts an ISTRING token's raw []token.InterpPart
// payload into ast.InterpPart values, re-lexing and re-parsing each embedded
// expression fragment through a fresh sub-parser (see parseExprFragment).
func (p *Parser) parseInterpolation(tok token.Token) (ast.Expr, error) {
	rawParts, _ := tok.Literal.([]token.InterpPart)
	expr := &ast.InterpolationExpr{Pos: tok.Pos}
	for _, rp := range rawParts {
		if !rp.IsExpr {
			expr.Parts = append(expr.Parts, ast.InterpPart{IsExpr: false, Text: rp.Text})
			continue
		}
		sub, err := parseExprFragment(rp.Text, rp.Pos)
		if err != nil {
			return nil, err
		}
		expr.Parts = append(expr.Parts, ast.InterpPart{IsExpr: true, Expr: sub})
	}
	return expr, nil
}

// parseExprFragment re-lexes and parses one interpolation hole's raw text as
// a standalone expression, translating token positions back into the
// surrounding source so errors still point at a sensible location.
func parseExprFragment(raw string, basePos token.Position) (ast.Expr, error) {
	toks, err := lexer.Lex(raw)
	if err != nil {
		return nil, err
	}
	for i := range toks {
		if toks[i].Pos.Line == 1 {
			toks[i].Pos.Column += basePos.Column - 1
		}
		toks[i].Pos.Line += basePos.Line - 1
		toks[i].Pos.Offset += basePos.Offset
	}

	sub := &Parser{source: raw, toks: toks}
	expr, err := sub.parseExpr()
	if err != nil {
		return nil, err
	}
	if sub.cur().Type != token.EOF {
		return nil, sub.errf("unexpected trailing tokens in interpolated expression, got %s", sub.cur().Type)
	}
	return expr, nil
}

// ---------------------------------------------------------------------------
// Match expressions

func (p *Parser) parseMatchExpr(tok token.Token) (ast.Expr, error) {
	p.advance() // past 'match'

	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	match := &ast.MatchExpr{Pos: tok.Pos, Scrutinee: scrutinee}
	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, p.errf("unterminated match expression")
		}
		c, err := p.parseMatchCase()
		if err != nil {
			return nil, err
		}
		match.Cases = append(match.Cases, c)
		if p.cur().Type == token.COMMA {
			p.advance()
		}
	}
	p.advance() // consume '}'

	return match, nil
}

var matchConstructorTags = map[token.Type]string{
	token.OK:     "Ok",
	token.ERRORK: "Error",
	token.SOME:   "Some",
}

func (p *Parser) parseMatchCase() (ast.MatchCase, error) {
	c := ast.MatchCase{Pos: p.cur().Pos}

	switch p.cur().Type {
	case token.OK, token.ERRORK, token.SOME:
		c.Tag = matchConstructorTags[p.cur().Type]
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return c, err
		}
		bindTok, err := p.expect(token.IDENT)
		if err != nil {
			return c, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return c, err
		}
		c.Bind = bindTok.Lexeme
	case token.NONE:
		p.advance()
		c.Tag = "None"
	case token.INT:
		c.IsLiteral = true
		c.LiteralValue = p.cur().Literal.(int64)
		p.advance()
	case token.STRING:
		c.IsLiteral = true
		c.LiteralValue = p.cur().Literal.(string)
		p.advance()
	case token.IDENT:
		name := p.cur().Lexeme
		p.advance()
		switch {
		case name == "_":
			c.IsWildcard = true
		case p.cur().Type == token.LPAREN:
			p.advance()
			bindTok, err := p.expect(token.IDENT)
			if err != nil {
				return c, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return c, err
			}
			c.Tag = name
			c.Bind = bindTok.Lexeme
		default:
			c.Bind = name
		}
	default:
		return c, p.errf("expected a match pattern, got %s", p.cur().Type)
	}

	if _, err := p.expect(token.ARROW); err != nil {
		return c, err
	}

	if p.cur().Type == token.LBRACE {
		p.advance()
		body, err := p.parseBlock()
		if err != nil {
			return c, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return c, err
		}
		c.Body = body
	} else {
		expr, err := p.parseExpr()
		if err != nil {
			return c, err
		}
		c.Body = []ast.Stmt{&ast.ExprStmt{Pos: expr.Position(), Value: expr}}
	}

	return c, nil
}
