package parser

import (
	"strings"
	"unicode/utf8"

	"fuhao/internal/ast"
	"fuhao/internal/diag"
	"fuhao/internal/token"
)

// parseExpression разбирает одно выражение. На терминаторе (перевод строки,
// запятая, закрывающий разделитель, EOF) возвращает nil, true. Токены, с
// которых выражение начаться не может, пропускаются.
func (p *Parser) parseExpression() (ast.Node, bool) {
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF, token.Newline, token.Comma:
			return nil, true
		case token.Ident:
			return p.parseIdentOrCall()
		case token.Number:
			p.advance()
			return ast.NewNumeric(tok.Span, tok.Text), true
		case token.String:
			p.advance()
			return ast.NewString(tok.Span, tok.Text, unquote(tok.Text)), true
		case token.LBracket:
			open := p.advance()
			elems, end, ok := p.parseElements(token.RBracket)
			if !ok {
				return nil, false
			}
			span := open.Span.Cover(end.Span)
			return ast.NewArray(span, p.raw(span), elems), true
		case token.LParen:
			return p.parseGrouped()
		case token.Keyword:
			if n, ok, handled := p.parseKeywordExpression(tok); handled {
				return n, ok
			}
			p.skip(p.advance())
		default:
			if tok.Kind.IsClose() {
				return nil, true
			}
			if tok.Kind.IsOpen() {
				if !p.skipGroup(p.advance()) {
					return nil, false
				}
				continue
			}
			p.skip(p.advance())
		}
	}
}

// parseKeywordExpression handles literal and declaration keywords in
// expression position. handled is false for glyphs that cannot start one.
func (p *Parser) parseKeywordExpression(tok token.Token) (n ast.Node, ok, handled bool) {
	switch tok.Category {
	case token.CatText:
		n, ok = p.parseText(p.advance())
	case token.CatList:
		n, ok = p.parseList(p.advance())
	case token.CatObject:
		n, ok = p.parseObject(p.advance())
	case token.CatStyle:
		n, ok = p.parseStyled(p.advance())
	case token.CatImport, token.CatFunction, token.CatComponent,
		token.CatInterface, token.CatState, token.CatDoc:
		n, ok = p.parseStatement()
	default:
		return nil, false, false
	}
	return n, ok, true
}

// parseIdentOrCall: name или name(args).
func (p *Parser) parseIdentOrCall() (ast.Node, bool) {
	tok := p.advance()
	id := ast.NewIdentifier(tok.Span, tok.Text)
	if !p.at(token.LParen) {
		return id, true
	}
	p.advance()
	args, end, ok := p.parseElements(token.RParen)
	if !ok {
		return nil, false
	}
	span := tok.Span.Cover(end.Span)
	return ast.NewCall(span, p.raw(span), id, args), true
}

// parseGrouped: (expr). Скобки не порождают узла.
func (p *Parser) parseGrouped() (ast.Node, bool) {
	p.advance()
	p.skipNewlines()
	inner, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	p.skipNewlines()
	if _, ok := p.expect(token.RParen, diag.SynExpectClose); !ok {
		return nil, false
	}
	return inner, true
}

// parseElements разбирает выражения через запятую до close включительно.
func (p *Parser) parseElements(closer token.Kind) ([]ast.Node, token.Token, bool) {
	var elems []ast.Node
	for {
		p.skipSeparators()
		tok := p.peek()
		if tok.Kind == closer {
			return elems, p.advance(), true
		}
		if tok.Kind == token.EOF || tok.Kind.IsClose() {
			return nil, token.Token{}, p.fail(kindText(closer), tok, diag.SynExpectClose)
		}
		n, ok := p.parseExpression()
		if !ok {
			return nil, token.Token{}, false
		}
		if n != nil {
			elems = append(elems, n)
		}
	}
}

// parseText: 文【"Hello" world】. Голые токены становятся словами.
func (p *Parser) parseText(kw token.Token) (ast.Node, bool) {
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	var parts []ast.Node
	depth := 0 // открытые внутри текста 【
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.RFence && depth > 0:
			depth--
			p.advance()
			parts = append(parts, ast.NewWord(tok.Span, tok.Text))
		case tok.Kind == token.RFence:
			end := p.advance()
			span := kw.Span.Cover(end.Span)
			return ast.NewText(span, p.raw(span), parts), true
		case tok.Kind == token.EOF:
			return nil, p.fail(`"】"`, tok, diag.SynExpectClose)
		case tok.Kind == token.Newline:
			p.advance()
		case tok.Kind == token.String:
			p.advance()
			parts = append(parts, ast.NewString(tok.Span, tok.Text, unquote(tok.Text)))
		case tok.Kind == token.Number:
			p.advance()
			parts = append(parts, ast.NewNumeric(tok.Span, tok.Text))
		case tok.IsKeyword(token.CatText, token.CatList, token.CatObject, token.CatStyle):
			n, ok := p.parseExpression()
			if !ok {
				return nil, false
			}
			if n != nil {
				parts = append(parts, n)
			}
		default:
			if tok.Kind == token.LFence {
				depth++
			}
			p.advance()
			parts = append(parts, ast.NewWord(tok.Span, tok.Text))
		}
	}
}

// parseList: 列【a, b】
func (p *Parser) parseList(kw token.Token) (ast.Node, bool) {
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	elems, end, ok := p.parseElements(token.RFence)
	if !ok {
		return nil, false
	}
	span := kw.Span.Cover(end.Span)
	return ast.NewArray(span, p.raw(span), elems), true
}

// parseObject: 象【key: value, …】
func (p *Parser) parseObject(kw token.Token) (ast.Node, bool) {
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	props, end, ok := p.parseProperties()
	if !ok {
		return nil, false
	}
	span := kw.Span.Cover(end.Span)
	return ast.NewObject(span, p.raw(span), props), true
}

// parseStyled: 样【tag key: value, …】
func (p *Parser) parseStyled(kw token.Token) (ast.Node, bool) {
	if _, ok := p.expect(token.LFence, diag.SynExpectOpen); !ok {
		return nil, false
	}
	p.skipNewlines()
	tag, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	props, end, ok := p.parseProperties()
	if !ok {
		return nil, false
	}
	span := kw.Span.Cover(end.Span)
	return ast.NewStyled(span, p.raw(span), tag, props), true
}

// parseProperties разбирает пары key: value до 】 включительно.
func (p *Parser) parseProperties() ([]*ast.Property, token.Token, bool) {
	var props []*ast.Property
	for {
		p.skipSeparators()
		tok := p.peek()
		var key string
		switch tok.Kind {
		case token.RFence:
			return props, p.advance(), true
		case token.Ident:
			key = tok.Text
		case token.String:
			key = unquote(tok.Text)
		default:
			return nil, token.Token{}, p.fail("property name", tok, diag.SynExpectIdentifier)
		}
		p.advance()
		if _, ok := p.expect(token.Colon, diag.SynExpectColon); !ok {
			return nil, token.Token{}, false
		}
		value, ok := p.parseExpression()
		if !ok {
			return nil, token.Token{}, false
		}
		if value == nil {
			return nil, token.Token{}, p.fail("value for "+key, p.peek(), diag.SynUnexpectedToken)
		}
		props = append(props, &ast.Property{
			Span:    tok.Span.Cover(value.Span()),
			Key:     key,
			KeySpan: tok.Span,
			Value:   value,
		})
	}
}

// unquote снимает кавычки и разворачивает экранирование "\x" → "x".
// Незакрытая строка теряет только открывающую кавычку.
func unquote(text string) string {
	open, size := utf8.DecodeRuneInString(text)
	if size == 0 {
		return ""
	}
	body := text[size:]
	if closeQ, ok := quotePairs[open]; ok {
		if last, lsize := utf8.DecodeLastRuneInString(body); last == closeQ && !escapedAt(body, len(body)-lsize) {
			body = body[:len(body)-lsize]
		}
	}
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	escaped := false
	for _, r := range body {
		switch {
		case escaped:
			b.WriteRune(unescape(r))
			escaped = false
		case r == '\\':
			escaped = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	}
	return r
}

// escapedAt reports whether the byte at i is preceded by an odd run of backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

var quotePairs = map[rune]rune{
	'"': '"',
	'\'': '\'',
	'“': '”',
	'「': '」',
	'『': '』',
}
