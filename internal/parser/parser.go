// Package parser builds the source AST from the token stream by recursive
// descent with one token of lookahead.
//
// Block-bodied declarations are fenced: the category glyph opens the block
// and the same glyph before 】 closes it. The first missing token aborts the
// parse with *ParseError. Tokens that cannot start an expression are skipped
// and recorded in Program.Skipped.
package parser

import (
	"slices"

	"fuhao/internal/ast"
	"fuhao/internal/diag"
	"fuhao/internal/lexer"
	"fuhao/internal/source"
	"fuhao/internal/token"
)

type Options struct {
	// Reporter получает SYN-диагностики; nil допустим.
	Reporter diag.Reporter
}

type Result struct {
	Program *ast.Program
	// Err is the *ParseError that aborted the parse, if any. Program is nil then.
	Err error
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	skipped  []*ast.Unsupported
	failure  *ParseError
}

// ParseFile: входная точка для разбора одного файла.
func ParseFile(file *source.File, lx *lexer.Lexer, opts Options) Result {
	p := Parser{
		lx:       lx,
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	prog, ok := p.parseProgram()
	if !ok {
		return Result{Err: p.failure}
	}
	return Result{Program: prog}
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) atKeyword(cats ...token.Category) bool {
	return p.lx.Peek().IsKeyword(cats...)
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) raw(span source.Span) string {
	return p.file.Slice(span)
}

// parseProgram: основной цикл верхнего уровня.
func (p *Parser) parseProgram() (*ast.Program, bool) {
	var body []ast.Node
	var end source.Span
	for {
		p.skipSeparators()
		tok := p.peek()
		if tok.Kind == token.EOF {
			end = tok.Span
			break
		}
		// лишний закрывающий разделитель на верхнем уровне не ломает разбор
		if tok.Kind.IsClose() {
			p.skip(p.advance())
			continue
		}
		n, ok := p.parseStatement()
		if !ok {
			return nil, false
		}
		if n != nil {
			body = append(body, n)
		}
	}
	span := source.Span{File: p.file.ID, Start: 0, End: end.End}
	return ast.NewProgram(span, p.raw(span), body, p.skipped), true
}

// parseStatement выбирает распознаватель по категории текущего токена.
// Возвращает nil, true, если в позиции нет узла.
func (p *Parser) parseStatement() (ast.Node, bool) {
	tok := p.peek()
	if tok.Kind != token.Keyword {
		return p.parseExpression()
	}
	switch tok.Category {
	case token.CatImport:
		return p.parseImport(p.advance())
	case token.CatFunction:
		return p.parseFunction(p.advance())
	case token.CatComponent:
		return p.parseComponent(p.advance())
	case token.CatInterface:
		return p.parseInterface(p.advance())
	case token.CatState:
		return p.parseState(p.advance())
	case token.CatDoc:
		return p.parseDocumentation(p.advance())
	default:
		return p.parseExpression()
	}
}

// parseDeclarationAfter продолжает разбор объявления, ключевое слово которого уже съедено.
func (p *Parser) parseDeclarationAfter(kw token.Token) (ast.Node, bool) {
	switch kw.Category {
	case token.CatFunction:
		return p.parseFunction(kw)
	case token.CatComponent:
		return p.parseComponent(kw)
	default:
		return p.parseInterface(kw)
	}
}

// skipSeparators пропускает переводы строк и запятые между элементами.
func (p *Parser) skipSeparators() {
	for p.atOr(token.Newline, token.Comma) {
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.at(token.Newline) {
		p.advance()
	}
}

// skip records tok as an unsupported node outside the tree.
func (p *Parser) skip(tok token.Token) {
	u := ast.NewUnsupported(tok.Span, tok.Text, tok.Kind.String())
	p.skipped = append(p.skipped, u)
	diag.ReportInfo(p.opts.Reporter, diag.SynSkippedToken, tok.Span, "skipped "+describe(tok)).Emit()
}

// skipGroup пропускает сбалансированную группу, начиная с открывающего токена.
func (p *Parser) skipGroup(open token.Token) bool {
	depth := 1
	last := open
	for depth > 0 {
		tok := p.peek()
		if tok.Kind == token.EOF {
			return p.fail(closerText(open.Kind), tok, diag.SynExpectClose)
		}
		last = p.advance()
		switch {
		case last.Kind.IsOpen():
			depth++
		case last.Kind.IsClose():
			depth--
		}
	}
	span := open.Span.Cover(last.Span)
	p.skip(token.Token{Kind: open.Kind, Span: span, Text: p.raw(span)})
	return true
}
