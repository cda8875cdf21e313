package pbxplist

import (
	"fmt"
)

// Parse reads a whole project manifest into an Object tree:
//
//	headComment -> text of the leading "// !$*UTF8*$!" line
//	project     -> the root dictionary, with its flat "objects" dict
//	               regrouped into one sub-object per isa section
//
// Any syntax error aborts the parse; no partial tree is returned.
func Parse(src []byte) (Object, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return Object{}, err
	}

	doc := NewObject()
	if p.tok.kind == tokLineComment {
		doc.Set("headComment", p.tok.text)
		if err := p.advance(); err != nil {
			return Object{}, err
		}
	}

	if p.tok.kind != tokBraceOpen {
		return Object{}, fmt.Errorf("line %d: manifest must start with '{'", p.tok.line)
	}
	root, err := p.parseDict()
	if err != nil {
		return Object{}, err
	}

	if err := regroupObjects(root); err != nil {
		return Object{}, err
	}
	doc.Set("project", root)
	return doc, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// parseDict consumes a dictionary starting at the current '{' token.
func (p *parser) parseDict() (Object, error) {
	obj := NewObject()
	if err := p.advance(); err != nil { // past '{'
		return obj, err
	}

	for {
		switch p.tok.kind {
		case tokBraceClose:
			return obj, p.advance()
		case tokComment, tokLineComment:
			// free-standing section markers, dropped; the writer
			// regenerates them from the section names
			if err := p.advance(); err != nil {
				return obj, err
			}
		case tokString:
			if err := p.parseEntry(obj); err != nil {
				return obj, err
			}
		case tokEOF:
			return obj, fmt.Errorf("line %d: unexpected end of manifest inside dictionary", p.tok.line)
		default:
			return obj, fmt.Errorf("line %d: unexpected token inside dictionary", p.tok.line)
		}
	}
}

func (p *parser) parseEntry(obj Object) error {
	key := p.tok.text
	if err := p.advance(); err != nil {
		return err
	}

	comment := ""
	if p.tok.kind == tokComment {
		comment = p.tok.text
		if err := p.advance(); err != nil {
			return err
		}
	}

	if p.tok.kind != tokEquals {
		return fmt.Errorf("line %d: expected '=' after key %s", p.tok.line, key)
	}
	if err := p.advance(); err != nil {
		return err
	}

	val, valComment, err := p.parseValue()
	if err != nil {
		return err
	}
	if valComment != "" {
		comment = valComment
	}

	if p.tok.kind != tokSemicolon {
		return fmt.Errorf("line %d: expected ';' after value of %s", p.tok.line, key)
	}
	if err := p.advance(); err != nil {
		return err
	}

	obj.Set(key, val)
	if comment != "" {
		obj.Set(ToCommentKey(key), comment)
	}
	return nil
}

// parseValue consumes one value and the comment trailing it, if any.
func (p *parser) parseValue() (interface{}, string, error) {
	switch p.tok.kind {
	case tokBraceOpen:
		obj, err := p.parseDict()
		return obj, "", err
	case tokParenOpen:
		arr, err := p.parseArray()
		return arr, "", err
	case tokString:
		val := scalarValue(p.tok)
		if err := p.advance(); err != nil {
			return nil, "", err
		}
		if p.tok.kind == tokComment {
			comment := p.tok.text
			if err := p.advance(); err != nil {
				return nil, "", err
			}
			return val, comment, nil
		}
		return val, "", nil
	default:
		return nil, "", fmt.Errorf("line %d: expected a value", p.tok.line)
	}
}

// parseArray consumes a list starting at the current '(' token.
// Elements annotated with a comment become CommentValue objects.
func (p *parser) parseArray() ([]interface{}, error) {
	arr := make([]interface{}, 0)
	if err := p.advance(); err != nil { // past '('
		return arr, err
	}

	for {
		switch p.tok.kind {
		case tokParenClose:
			return arr, p.advance()
		case tokEOF:
			return arr, fmt.Errorf("line %d: unexpected end of manifest inside list", p.tok.line)
		}

		val, comment, err := p.parseValue()
		if err != nil {
			return arr, err
		}
		if comment != "" {
			str, ok := val.(string)
			if !ok {
				return arr, fmt.Errorf("line %d: comment on non-string list element", p.tok.line)
			}
			arr = append(arr, CommentValue{Value: str, Comment: comment}.ToObject())
		} else {
			arr = append(arr, val)
		}

		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return arr, err
			}
		case tokParenClose:
			// final element without trailing comma
		default:
			return arr, fmt.Errorf("line %d: expected ',' or ')' in list", p.tok.line)
		}
	}
}

// scalarValue keeps the token text untouched. Bare numerals are not
// converted to ints: 007 must re-emit as 007. GetInt parses on demand.
func scalarValue(tok token) interface{} {
	return tok.text
}

// regroupObjects rewrites the flat uuid->record "objects" dictionary
// into per-isa sections, the shape every higher-level operation works
// against. Section order follows first appearance.
func regroupObjects(root Object) error {
	objectsVal, ok := root.Get("objects")
	if !ok {
		return fmt.Errorf("manifest has no objects dictionary")
	}
	objects, ok := objectsVal.(Object)
	if !ok {
		return fmt.Errorf("manifest objects entry is not a dictionary")
	}

	sections := NewObject()
	var regroupErr error
	objects.ForeachWithFilter(func(uuid string, val interface{}) IterateActionType {
		record, ok := val.(Object)
		if !ok {
			regroupErr = fmt.Errorf("object %s is not a dictionary", uuid)
			return IterateActionBreak
		}
		isa := record.GetString("isa")
		if isa == "" {
			regroupErr = fmt.Errorf("object %s has no isa", uuid)
			return IterateActionBreak
		}
		if !sections.Has(isa) {
			sections.Set(isa, NewObject())
		}
		section := sections.GetObject(isa)
		section.Set(uuid, record)
		if comment := objects.GetString(ToCommentKey(uuid)); comment != "" {
			section.Set(ToCommentKey(uuid), comment)
		}
		return IterateActionContinue
	}, NonCommentsFilter)
	if regroupErr != nil {
		return regroupErr
	}

	root.Set("objects", sections)
	return nil
}
