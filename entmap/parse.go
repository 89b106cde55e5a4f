package entmap

import (
	"math"
	"strconv"
)

// ParseEntity parses a single entity{...} block into an object value.
//
// Comments are stripped and inter-token whitespace is insignificant, but
// whitespace inside quoted strings is never altered. The result always
// carries a "layers" field (empty when the block was absent), followed by
// the flat assignments in source order, with the mandatory
// "entityDef <name>" field last. A missing entityDef block yields a
// *MissingDefinitionError; any other grammar violation yields a
// *GrammarError.
func ParseEntity(text string) (*Value, error) {
	lexer := NewLexer(text)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}

	p := &entityParser{stream: NewTokenStream(tokens)}
	entity, err := p.parseEntity()
	if err != nil {
		return nil, err
	}

	if tok := p.stream.Peek(); tok.Type != TokenEOF {
		return nil, grammarErrf(tok.Pos, "unexpected %s after entity block", tok)
	}
	return entity, nil
}

type entityParser struct {
	stream *TokenStream
}

// parseEntity parses: entity{ layers{...}? assignment* entityDef <name>{...} }
func (p *entityParser) parseEntity() (*Value, error) {
	open, err := p.expectKeyword("entity")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	fields := []Field{{Key: "layers", Value: Layers()}}

	// Optional layers block comes first.
	if p.stream.Peek().Type == TokenIdent && p.stream.Peek().Value == "layers" &&
		p.stream.PeekN(1).Type == TokenLBrace {
		layers, err := p.parseLayersBlock()
		if err != nil {
			return nil, err
		}
		fields[0].Value = layers
	}

	var defField *Field
	for {
		tok := p.stream.Peek()
		if tok.Type == TokenRBrace || tok.Type == TokenEOF {
			break
		}
		if tok.Type != TokenIdent {
			return nil, grammarErrf(tok.Pos, "expected assignment or entityDef, got %s", tok)
		}

		if tok.Value == "entityDef" {
			key, body, err := p.parseEntityDefBlock()
			if err != nil {
				return nil, err
			}
			defField = &Field{Key: key, Value: body}
			// The entityDef block closes the entity: anything but the
			// final brace after it is malformed.
			if next := p.stream.Peek(); next.Type != TokenRBrace {
				return nil, grammarErrf(next.Pos, "unexpected %s after entityDef block", next)
			}
			break
		}

		field, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	if defField == nil {
		return nil, &MissingDefinitionError{Pos: open.Pos}
	}

	fields = append(fields, *defField)
	return Object(fields...), nil
}

// parseLayersBlock parses: layers{ "name" "name" ... }
func (p *entityParser) parseLayersBlock() (*Value, error) {
	p.stream.Advance() // consume "layers"
	p.stream.Advance() // consume {

	var names []string
	for {
		tok := p.stream.Peek()
		if tok.Type == TokenRBrace {
			p.stream.Advance()
			break
		}
		if tok.Type != TokenString {
			return nil, grammarErrf(tok.Pos, "expected layer string, got %s", tok)
		}
		names = append(names, tok.Value)
		p.stream.Advance()
	}

	return Layers(names...), nil
}

// parseEntityDefBlock parses: entityDef <name>{ assignment* }
func (p *entityParser) parseEntityDefBlock() (string, *Value, error) {
	p.stream.Advance() // consume "entityDef"

	name, err := p.expect(TokenIdent)
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return "", nil, err
	}

	body, err := p.parseObjectBody()
	if err != nil {
		return "", nil, err
	}
	return "entityDef " + name.Value, body, nil
}

// parseObjectBody parses assignments up to and including the closing
// brace.
func (p *entityParser) parseObjectBody() (*Value, error) {
	var fields []Field
	for {
		tok := p.stream.Peek()
		if tok.Type == TokenRBrace {
			p.stream.Advance()
			break
		}
		if tok.Type != TokenIdent {
			return nil, grammarErrf(tok.Pos, "expected assignment, got %s", tok)
		}
		field, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return Object(fields...), nil
}

// parseAssignment parses: <name> = <object-or-literal>
//
// Literals carry a mandatory trailing semicolon; object values may carry
// one, matching files in the wild that terminate nested blocks with
// "};".
func (p *entityParser) parseAssignment() (Field, error) {
	name := p.stream.Advance()
	if _, err := p.expect(TokenEq); err != nil {
		return Field{}, err
	}

	tok := p.stream.Peek()
	if tok.Type == TokenLBrace {
		p.stream.Advance()
		obj, err := p.parseObjectBody()
		if err != nil {
			return Field{}, err
		}
		p.stream.Match(TokenSemi)
		return Field{Key: name.Value, Value: obj}, nil
	}

	value, err := p.parseLiteral()
	if err != nil {
		return Field{}, err
	}
	if _, err := p.expect(TokenSemi); err != nil {
		return Field{}, err
	}
	return Field{Key: name.Value, Value: value}, nil
}

// parseLiteral parses a scalar literal value.
func (p *entityParser) parseLiteral() (*Value, error) {
	tok := p.stream.Peek()

	switch tok.Type {
	case TokenNull:
		p.stream.Advance()
		return Null(), nil

	case TokenTrue:
		p.stream.Advance()
		return Bool(true), nil

	case TokenFalse:
		p.stream.Advance()
		return Bool(false), nil

	case TokenString:
		p.stream.Advance()
		return Str(tok.Value), nil

	case TokenInt:
		p.stream.Advance()
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, grammarErrf(tok.Pos, "invalid integer literal %q", tok.Value)
		}
		return Int(v), nil

	case TokenFloat:
		p.stream.Advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, grammarErrf(tok.Pos, "invalid number literal %q", tok.Value)
		}
		return numericValue(f), nil

	default:
		return nil, grammarErrf(tok.Pos, "expected literal value, got %s", tok)
	}
}

// numericValue normalizes integral floats to integers, so 3.0 becomes
// the int 3 while 3.5 stays a float.
func numericValue(f float64) *Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Float(f)
}

// expect advances past a token of the given type or fails with a
// grammar error.
func (p *entityParser) expect(typ TokenType) (Token, error) {
	tok := p.stream.Peek()
	if tok.Type != typ {
		return tok, grammarErrf(tok.Pos, "expected %s, got %s", typ, tok)
	}
	p.stream.Advance()
	return tok, nil
}

// expectKeyword advances past an identifier with the given value.
func (p *entityParser) expectKeyword(word string) (Token, error) {
	tok := p.stream.Peek()
	if tok.Type != TokenIdent || tok.Value != word {
		return tok, grammarErrf(tok.Pos, "expected %q, got %s", word, tok)
	}
	p.stream.Advance()
	return tok, nil
}
