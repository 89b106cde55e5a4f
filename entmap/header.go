package entmap

import (
	"strconv"
)

// ParseHeader parses the header section of a map document: an optional
// Version line, an optional HierarchyVersion line and an optional
// properties block. Every section may be absent, so a fully empty or
// whitespace-only input is valid and yields the defaults (-1, -1, no
// properties).
//
// The input must contain only header-shaped content; the document parser
// guarantees this by routing the segment before the first entity block
// here.
func ParseHeader(text string) (version, hierarchyVersion int, props []Property, err error) {
	version = -1
	hierarchyVersion = -1

	lexer := NewLexer(text)
	tokens, lerr := lexer.Tokenize()
	if lerr != nil {
		return -1, -1, nil, lerr
	}
	stream := NewTokenStream(tokens)

	if stream.Peek().Type == TokenIdent && stream.Peek().Value == "Version" {
		stream.Advance()
		version, err = expectHeaderInt(stream, "Version")
		if err != nil {
			return -1, -1, nil, err
		}
	}

	if stream.Peek().Type == TokenIdent && stream.Peek().Value == "HierarchyVersion" {
		stream.Advance()
		hierarchyVersion, err = expectHeaderInt(stream, "HierarchyVersion")
		if err != nil {
			return -1, -1, nil, err
		}
	}

	if stream.Peek().Type == TokenIdent && stream.Peek().Value == "properties" {
		stream.Advance()
		props, err = parsePropertiesBlock(stream)
		if err != nil {
			return -1, -1, nil, err
		}
	}

	if tok := stream.Peek(); tok.Type != TokenEOF {
		return -1, -1, nil, grammarErrf(tok.Pos, "unexpected %s in header", tok)
	}
	return version, hierarchyVersion, props, nil
}

func expectHeaderInt(stream *TokenStream, section string) (int, error) {
	tok := stream.Peek()
	if tok.Type != TokenInt {
		return -1, grammarErrf(tok.Pos, "expected integer after %s, got %s", section, tok)
	}
	stream.Advance()
	n, err := strconv.Atoi(tok.Value)
	if err != nil {
		return -1, grammarErrf(tok.Pos, "invalid %s integer %q", section, tok.Value)
	}
	return n, nil
}

// parsePropertiesBlock parses: { "key" = "value" ... }
func parsePropertiesBlock(stream *TokenStream) ([]Property, error) {
	if tok := stream.Peek(); tok.Type != TokenLBrace {
		return nil, grammarErrf(tok.Pos, "expected { after properties, got %s", tok)
	}
	stream.Advance()

	var props []Property
	for {
		tok := stream.Peek()
		if tok.Type == TokenRBrace {
			stream.Advance()
			break
		}
		if tok.Type != TokenString {
			return nil, grammarErrf(tok.Pos, "expected property key string, got %s", tok)
		}
		stream.Advance()
		key := tok.Value

		if eq := stream.Peek(); eq.Type != TokenEq {
			return nil, grammarErrf(eq.Pos, "expected = in property assignment, got %s", eq)
		}
		stream.Advance()

		val := stream.Peek()
		if val.Type != TokenString {
			return nil, grammarErrf(val.Pos, "expected property value string, got %s", val)
		}
		stream.Advance()

		props = append(props, Property{Key: key, Value: val.Value})
	}
	return props, nil
}
