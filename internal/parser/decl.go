package parser

import (
	"strconv"
	"strings"

	"fuhao/internal/ast"
	"fuhao/internal/diag"
	"fuhao/internal/source"
	"fuhao/internal/token"
)

// parseImport распознаёт 引【ui, net】 и 引【"ui"】.
func (p *Parser) parseImport(kw token.Token) (ast.Node, bool) {
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	var modules []*ast.Identifier
	for {
		p.skipSeparators()
		tok := p.peek()
		switch tok.Kind {
		case token.RFence:
			end := p.advance()
			span := kw.Span.Cover(end.Span)
			return ast.NewImport(span, p.raw(span), modules), true
		case token.Ident:
			p.advance()
			modules = append(modules, ast.NewIdentifier(tok.Span, tok.Text))
		case token.String:
			p.advance()
			modules = append(modules, ast.NewIdentifier(tok.Span, unquote(tok.Text)))
		default:
			return nil, p.fail("module name", tok, diag.SynExpectIdentifier)
		}
	}
}

// parseFunction: 函【name(params) body 函】
func (p *Parser) parseFunction(kw token.Token) (ast.Node, bool) {
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	p.skipNewlines()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok = p.expect(token.LParen, diag.SynExpectOpen); !ok {
		return nil, false
	}
	params, ok := p.parseParams()
	if !ok {
		return nil, false
	}
	body, end, ok := p.parseBody(kw)
	if !ok {
		return nil, false
	}
	span := kw.Span.Cover(end.Span)
	return ast.NewFunction(span, p.raw(span), name, params, body), true
}

// parseComponent: 组【Name(props) body 组】; список свойств необязателен.
func (p *Parser) parseComponent(kw token.Token) (ast.Node, bool) {
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	p.skipNewlines()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	var props []*ast.Identifier
	if p.at(token.LParen) {
		p.advance()
		if props, ok = p.parseParams(); !ok {
			return nil, false
		}
	}
	body, end, ok := p.parseBody(kw)
	if !ok {
		return nil, false
	}
	span := kw.Span.Cover(end.Span)
	return ast.NewComponent(span, p.raw(span), name, props, body), true
}

// parseInterface: 界【Name body 界】 или корневой 界主【 body 界】.
func (p *Parser) parseInterface(kw token.Token) (ast.Node, bool) {
	if p.atKeyword(token.CatRoot) {
		p.advance()
		if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
			return nil, false
		}
		body, end, ok := p.parseBody(kw)
		if !ok {
			return nil, false
		}
		span := kw.Span.Cover(end.Span)
		return ast.NewUIInterface(span, p.raw(span), body), true
	}
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	p.skipNewlines()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	body, end, ok := p.parseBody(kw)
	if !ok {
		return nil, false
	}
	span := kw.Span.Cover(end.Span)
	return ast.NewInterface(span, p.raw(span), name, body), true
}

// parseBody разбирает тело блока до закрывающей ограды "<kw>】".
// Тот же глиф с 【 после него открывает вложенное объявление.
func (p *Parser) parseBody(kw token.Token) ([]ast.Node, token.Token, bool) {
	fence := strconv.Quote(kw.Text + "】")
	var body []ast.Node
	for {
		p.skipSeparators()
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF || tok.Kind.IsClose():
			return nil, token.Token{}, p.fail(fence, tok, diag.SynMissingFence)
		case tok.IsKeyword(kw.Category):
			inner := p.advance()
			if p.at(token.RFence) {
				end := p.advance()
				return body, end, true
			}
			n, ok := p.parseDeclarationAfter(inner)
			if !ok {
				return nil, token.Token{}, false
			}
			body = append(body, n)
		default:
			n, ok := p.parseStatement()
			if !ok {
				return nil, token.Token{}, false
			}
			if n != nil {
				body = append(body, n)
			}
		}
	}
}

// parseParams разбирает "a, b)" после уже съеденной "(".
func (p *Parser) parseParams() ([]*ast.Identifier, bool) {
	var params []*ast.Identifier
	for {
		p.skipSeparators()
		if p.at(token.RParen) {
			p.advance()
			return params, true
		}
		id, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		params = append(params, id)
	}
}

// parseIdent: ожидает Ident, иначе ParseError.
func (p *Parser) parseIdent() (*ast.Identifier, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return nil, false
	}
	return ast.NewIdentifier(tok.Span, tok.Text), true
}

// parseState: 态【count ← ◈〇, name】
func (p *Parser) parseState(kw token.Token) (ast.Node, bool) {
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	var bindings []*ast.Binding
	for {
		p.skipSeparators()
		if p.at(token.RFence) {
			end := p.advance()
			span := kw.Span.Cover(end.Span)
			return ast.NewState(span, p.raw(span), bindings), true
		}
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		b := &ast.Binding{Span: name.Span(), Name: name}
		if p.atKeyword(token.CatAssign) {
			arrow := p.advance()
			value, ok := p.parseExpression()
			if !ok {
				return nil, false
			}
			if value == nil {
				return nil, p.fail("value after "+strconv.Quote(arrow.Text), p.peek(), diag.SynUnexpectedToken)
			}
			b.Value = value
			b.Span = b.Span.Cover(value.Span())
		}
		bindings = append(bindings, b)
	}
}

// parseDocumentation: 注【свободный текст】. Вложенные 【】 учитываются.
func (p *Parser) parseDocumentation(kw token.Token) (ast.Node, bool) {
	open, ok := p.expect(token.LFence, diag.SynExpectOpen)
	if !ok {
		return nil, false
	}
	depth := 1
	var end token.Token
	for depth > 0 {
		tok := p.peek()
		if tok.Kind == token.EOF {
			return nil, p.fail(`"】"`, tok, diag.SynExpectClose)
		}
		end = p.advance()
		switch end.Kind {
		case token.LFence:
			depth++
		case token.RFence:
			depth--
		}
	}
	inner := source.Span{File: open.Span.File, Start: open.Span.End, End: end.Span.Start}
	span := kw.Span.Cover(end.Span)
	return ast.NewDocumentation(span, p.raw(span), strings.TrimSpace(p.raw(inner))), true
}
