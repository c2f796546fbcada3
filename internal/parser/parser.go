// Package parser builds raw surface terms from the token stream. Multi-binder
// lambdas and binder telescopes are desugared here; the checker only ever
// sees single-binder forms.
package parser

import (
	"fmt"

	"github.com/sunholo/deplang/internal/ast"
	"github.com/sunholo/deplang/internal/errors"
	"github.com/sunholo/deplang/internal/lexer"
)

// Parser consumes tokens from a Lexer
type Parser struct {
	l        *lexer.Lexer
	curToken lexer.Token
	peek     lexer.Token
	errs     []error
}

// New creates a parser over the lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseString is a convenience entry point for one source string
func ParseString(input, filename string) (ast.Expr, error) {
	return New(lexer.New(input, filename)).Parse()
}

// Parse parses a single complete term followed by end of input
func (p *Parser) Parse() (ast.Expr, error) {
	e, err := p.parseTerm()
	// A lexical error leaves an ILLEGAL token behind; report the lexer's
	// located error rather than the parser's reaction to that token.
	if lexErrs := p.l.Errors(); len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	if err != nil {
		return nil, err
	}
	if p.curToken.Type != lexer.EOF {
		return nil, p.errorf(errors.PAR001, "unexpected token %s after term", p.curToken)
	}
	return e, nil
}

// Errors returns all accumulated parse errors
func (p *Parser) Errors() []error {
	return append(p.l.Errors(), p.errs...)
}

func (p *Parser) nextToken() {
	p.curToken = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{Line: p.curToken.Line, Column: p.curToken.Column, File: p.curToken.File}
}

func (p *Parser) errorf(code, format string, args ...any) error {
	pos := p.pos()
	err := errors.New(code, "parser", fmt.Sprintf(format, args...), &pos)
	p.errs = append(p.errs, err)
	return err
}

func (p *Parser) expect(t lexer.TokenType) error {
	if p.curToken.Type != t {
		return p.errorf(errors.PAR001, "expected %s, found %s", t, p.curToken)
	}
	p.nextToken()
	return nil
}

// parseTerm parses term := arrow-term | arrow-term ':' term, plus the
// prefix forms fun/if/case which extend to the right maximally
func (p *Parser) parseTerm() (ast.Expr, error) {
	switch p.curToken.Type {
	case lexer.FUN:
		return p.parseFun()
	case lexer.IF:
		return p.parseIf()
	case lexer.CASE:
		return p.parseCase()
	}

	e, err := p.parseArrow()
	if err != nil {
		return nil, err
	}
	if p.curToken.Type == lexer.COLON {
		pos := e.Position()
		p.nextToken()
		ty, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &ast.Ann{Term: e, Type: ty, Pos: pos}, nil
	}
	return e, nil
}

// parseArrow parses arrow-term := app-term | app-term '->' arrow-term.
// A parenthesized annotation whose head is a spine of names, followed by
// '->', is binder sugar: (a b : T) -> U becomes (a : T) -> (b : T) -> U.
func (p *Parser) parseArrow() (ast.Expr, error) {
	left, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	if p.curToken.Type != lexer.ARROW {
		return left, nil
	}
	p.nextToken()
	cod, err := p.parseArrow()
	if err != nil {
		return nil, err
	}

	if ann, ok := left.(*ast.Ann); ok {
		if names, ok := varSpine(ann.Term); ok {
			for i := len(names) - 1; i >= 0; i-- {
				cod = &ast.Pi{Name: names[i], Dom: ann.Type, Cod: cod, Pos: ann.Pos}
			}
			return cod, nil
		}
	}
	return &ast.Pi{Name: "_", Dom: left, Cod: cod, Pos: left.Position()}, nil
}

// varSpine flattens an application of bare names: `a b c` -> [a b c]
func varSpine(e ast.Expr) ([]string, bool) {
	switch e := e.(type) {
	case *ast.Var:
		return []string{e.Name}, true
	case *ast.App:
		head, ok := varSpine(e.Fn)
		if !ok {
			return nil, false
		}
		arg, ok := e.Arg.(*ast.Var)
		if !ok {
			return nil, false
		}
		return append(head, arg.Name), true
	}
	return nil, false
}

// parseApp parses left-nested application chains
func (p *Parser) parseApp() (ast.Expr, error) {
	fn, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.startsAtom() {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		fn = &ast.App{Fn: fn, Arg: arg, Pos: fn.Position()}
	}
	return fn, nil
}

func (p *Parser) startsAtom() bool {
	switch p.curToken.Type {
	case lexer.LPAREN, lexer.IDENT, lexer.TYPE, lexer.BOOL, lexer.TRUE, lexer.FALSE,
		lexer.INT, lexer.FLOAT, lexer.CHAR, lexer.STRING, lexer.QUESTION,
		lexer.LBRACKET, lexer.RECORDT, lexer.RECORD:
		return true
	}
	return false
}

// parseAtom parses atomic terms plus the postfix projection form
func (p *Parser) parseAtom() (ast.Expr, error) {
	var e ast.Expr
	pos := p.pos()

	switch p.curToken.Type {
	case lexer.LPAREN:
		p.nextToken()
		inner, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RPAREN); err != nil {
			return nil, p.errorf(errors.PAR002, "missing closing paren")
		}
		e = inner
	case lexer.IDENT:
		e = &ast.Var{Name: p.curToken.Literal, Pos: pos}
		p.nextToken()
	case lexer.TYPE:
		p.nextToken()
		level := 0
		if p.curToken.Type == lexer.CARET {
			p.nextToken()
			if p.curToken.Type != lexer.INT {
				return nil, p.errorf(errors.PAR005, "expected universe level after ^")
			}
			mag, neg, err := lexer.ParseIntLiteral(p.curToken.Literal, &pos)
			if err != nil {
				return nil, err
			}
			if neg {
				return nil, p.errorf(errors.PAR005, "universe level cannot be negative")
			}
			level = int(mag)
			p.nextToken()
		}
		e = &ast.Universe{Level: level, Pos: pos}
	case lexer.BOOL:
		e = &ast.BoolType{Pos: pos}
		p.nextToken()
	case lexer.TRUE, lexer.FALSE:
		e = &ast.BoolLit{Value: p.curToken.Type == lexer.TRUE, Pos: pos}
		p.nextToken()
	case lexer.INT:
		mag, neg, err := lexer.ParseIntLiteral(p.curToken.Literal, &pos)
		if err != nil {
			return nil, err
		}
		e = &ast.Literal{Kind: ast.IntLit, IntVal: mag, Negative: neg, Pos: pos}
		p.nextToken()
	case lexer.FLOAT:
		f, err := lexer.ParseFloatLiteral(p.curToken.Literal, &pos)
		if err != nil {
			return nil, err
		}
		e = &ast.Literal{Kind: ast.FloatLit, FloatVal: f, Pos: pos}
		p.nextToken()
	case lexer.CHAR:
		runes := []rune(p.curToken.Literal)
		var r rune
		if len(runes) > 0 {
			r = runes[0]
		}
		e = &ast.Literal{Kind: ast.CharLit, CharVal: r, Pos: pos}
		p.nextToken()
	case lexer.STRING:
		e = &ast.Literal{Kind: ast.StringLit, StrVal: p.curToken.Literal, Pos: pos}
		p.nextToken()
	case lexer.QUESTION:
		e = &ast.Hole{Pos: pos}
		p.nextToken()
	case lexer.LBRACKET:
		return p.parseList()
	case lexer.RECORDT:
		return p.parseRecordType()
	case lexer.RECORD:
		return p.parseRecord()
	default:
		return nil, p.errorf(errors.PAR001, "unexpected token %s", p.curToken)
	}

	return p.parsePostfix(e)
}

func (p *Parser) parsePostfix(e ast.Expr) (ast.Expr, error) {
	for p.curToken.Type == lexer.DOT {
		p.nextToken()
		if p.curToken.Type != lexer.IDENT {
			return nil, p.errorf(errors.PAR001, "expected field name after '.'")
		}
		e = &ast.Proj{Term: e, Label: p.curToken.Literal, Pos: e.Position()}
		p.nextToken()
	}
	return e, nil
}

// parseFun parses fun binder+ => body and desugars to nested single-binder
// lambdas. Binders: NAME, (NAME+ : term), or the single form fun x : T => e.
func (p *Parser) parseFun() (ast.Expr, error) {
	pos := p.pos()
	p.nextToken() // fun

	type binder struct {
		name string
		dom  ast.Expr
	}
	var binders []binder

	for {
		switch p.curToken.Type {
		case lexer.IDENT:
			name := p.curToken.Literal
			p.nextToken()
			if p.curToken.Type == lexer.COLON && len(binders) == 0 {
				// fun x : T => e
				p.nextToken()
				dom, err := p.parseArrow()
				if err != nil {
					return nil, err
				}
				binders = append(binders, binder{name: name, dom: dom})
				goto body
			}
			binders = append(binders, binder{name: name})
			continue
		case lexer.LPAREN:
			p.nextToken()
			var names []string
			for p.curToken.Type == lexer.IDENT {
				names = append(names, p.curToken.Literal)
				p.nextToken()
			}
			if len(names) == 0 {
				return nil, p.errorf(errors.PAR001, "expected binder name")
			}
			if err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			dom, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			if err := p.expect(lexer.RPAREN); err != nil {
				return nil, p.errorf(errors.PAR002, "missing closing paren in binder")
			}
			for _, name := range names {
				binders = append(binders, binder{name: name, dom: dom})
			}
			continue
		}
		break
	}

body:
	if len(binders) == 0 {
		return nil, p.errorf(errors.PAR001, "fun requires at least one binder")
	}
	if err := p.expect(lexer.FARROW); err != nil {
		return nil, err
	}
	e, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for i := len(binders) - 1; i >= 0; i-- {
		e = &ast.Lambda{Name: binders[i].name, Dom: binders[i].dom, Body: e, Pos: pos}
	}
	return e, nil
}

func (p *Parser) parseIf() (ast.Expr, error) {
	pos := p.pos()
	p.nextToken() // if
	cond, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.THEN); err != nil {
		return nil, err
	}
	then, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.ELSE); err != nil {
		return nil, err
	}
	els, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Pos: pos}, nil
}

func (p *Parser) parseCase() (ast.Expr, error) {
	pos := p.pos()
	p.nextToken() // case
	scrut, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.OF); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	var arms []ast.CaseArm
	for p.curToken.Type != lexer.RBRACE {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.FARROW); err != nil {
			return nil, err
		}
		body, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.CaseArm{Pattern: pat, Body: body})
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, p.errorf(errors.PAR002, "missing closing brace in case")
	}
	return &ast.Case{Scrutinee: scrut, Arms: arms, Pos: pos}, nil
}

func (p *Parser) parsePattern() (ast.Pattern, error) {
	pos := p.pos()
	switch p.curToken.Type {
	case lexer.IDENT:
		name := p.curToken.Literal
		p.nextToken()
		return &ast.PatternVar{Name: name, Pos: pos}, nil
	case lexer.TRUE, lexer.FALSE:
		value := p.curToken.Type == lexer.TRUE
		p.nextToken()
		return &ast.PatternBool{Value: value, Pos: pos}, nil
	case lexer.RECORD:
		p.nextToken()
		if err := p.expect(lexer.LBRACE); err != nil {
			return nil, err
		}
		var fields []ast.PatternField
		for p.curToken.Type != lexer.RBRACE {
			if p.curToken.Type != lexer.IDENT {
				return nil, p.errorf(errors.PAR004, "expected field name in record pattern")
			}
			name := p.curToken.Literal
			p.nextToken()
			if err := p.expect(lexer.ASSIGN); err != nil {
				return nil, err
			}
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.PatternField{Name: name, Pattern: sub})
			if p.curToken.Type == lexer.COMMA {
				p.nextToken()
				continue
			}
			break
		}
		if err := p.expect(lexer.RBRACE); err != nil {
			return nil, p.errorf(errors.PAR002, "missing closing brace in record pattern")
		}
		return &ast.PatternRecord{Fields: fields, Pos: pos}, nil
	default:
		return nil, p.errorf(errors.PAR004, "invalid pattern starting at %s", p.curToken)
	}
}

func (p *Parser) parseList() (ast.Expr, error) {
	pos := p.pos()
	p.nextToken() // [
	var elems []ast.Expr
	for p.curToken.Type != lexer.RBRACKET {
		e, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if err := p.expect(lexer.RBRACKET); err != nil {
		return nil, p.errorf(errors.PAR002, "missing closing bracket in list")
	}
	return p.parsePostfix(&ast.ListLit{Elems: elems, Pos: pos})
}

// parseDocComments collects doc comments preceding a record field
func (p *Parser) parseDocComments() []string {
	var doc []string
	for p.curToken.Type == lexer.DOCCOMMENT {
		doc = append(doc, p.curToken.Literal)
		p.nextToken()
	}
	return doc
}

func (p *Parser) parseRecordType() (ast.Expr, error) {
	pos := p.pos()
	p.nextToken() // Record
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.TypeField
	for p.curToken.Type != lexer.RBRACE {
		doc := p.parseDocComments()
		if p.curToken.Type != lexer.IDENT {
			return nil, p.errorf(errors.PAR003, "expected field name in record type")
		}
		name := p.curToken.Literal
		p.nextToken()
		if err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.TypeField{Doc: doc, Name: name, Type: ty})
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, p.errorf(errors.PAR002, "missing closing brace in record type")
	}
	return p.parsePostfix(&ast.RecordType{Fields: fields, Pos: pos})
}

func (p *Parser) parseRecord() (ast.Expr, error) {
	pos := p.pos()
	p.nextToken() // record
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.TermField
	for p.curToken.Type != lexer.RBRACE {
		doc := p.parseDocComments()
		if p.curToken.Type != lexer.IDENT {
			return nil, p.errorf(errors.PAR003, "expected field name in record")
		}
		name := p.curToken.Literal
		p.nextToken()
		if err := p.expect(lexer.ASSIGN); err != nil {
			return nil, err
		}
		value, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.TermField{Doc: doc, Name: name, Value: value})
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, p.errorf(errors.PAR002, "missing closing brace in record")
	}
	return p.parsePostfix(&ast.Record{Fields: fields, Pos: pos})
}
