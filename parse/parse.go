// minilate - a small text-templating engine.
// Copyright (C) 2017, b3log.org & hacpai.com
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package parse

import (
	"runtime"
	"strings"
)

// parser turns a stream of lexemes from the lexer into a Tree. It keeps no
// token lookahead buffer: unlike the teacher's parser, every directive is
// fully resolved (keyword plus the raw remainder of its tag) the moment it
// is read off the channel, so there is nothing to back up over.
type parser struct {
	name string
	text string
	lex  *lexer
}

// Parse parses template source text into a Tree named name.
func Parse(name, text string) (tree *Tree, err error) {
	p := &parser{name: name, text: text}
	defer p.recover(&err)

	p.lex = lex(text)
	root, term, _, pos := p.parseList()
	if term != "" {
		panic(strayError(term, pos))
	}

	return &Tree{Name: name, Root: root, text: text}, nil
}

// IsEmptyTree reports whether tree holds nothing but whitespace-only
// literal text, the same "don't replace a named template with an empty
// one" check the teacher's AddParseTree performs before overwriting.
func IsEmptyTree(tree *Tree) bool {
	if tree == nil {
		return true
	}
	return tree.Root.Empty()
}

func (p *parser) next() item {
	return p.lex.nextItem()
}

// recover turns a panic carrying an error built by newError (including one
// made from a lexer error item) into a returned error from Parse. Any other
// panic (a real bug, including a runtime error) propagates.
func (p *parser) recover(errp *error) {
	e := recover()
	if e == nil {
		return
	}
	if p.lex != nil {
		p.lex.drain()
	}
	if _, ok := e.(runtime.Error); ok {
		panic(e)
	}
	if err, ok := e.(error); ok {
		*errp = err
		return
	}
	panic(e)
}

// parseList parses nodes until EOF or a terminating directive (one of
// "elif", "else", "endif", "endfor"). It returns the accumulated list, the
// terminator keyword ("" at EOF), the terminator's raw remainder text (only
// meaningful for "elif"), and the terminator's byte position.
func (p *parser) parseList() (*NodeList, string, string, Pos) {
	list := newNodeList()

	for {
		it := p.next()

		switch it.typ {
		case itemEOF:
			return list, "", "", it.pos

		case itemError:
			panic(newErrorFromItem(it))

		case itemText:
			list.append(&LiteralNode{Pos: it.pos, Text: []byte(it.val)})

		case itemVariable:
			path, err := parseVariablePath(it.val, it.pos)
			if err != nil {
				panic(err)
			}
			list.append(&VariableNode{Pos: it.pos, Path: path})

		case itemInclude:
			name := strings.TrimSpace(it.val)
			if name == "" {
				panic(newError(ErrEmptyInclude, it.pos, "include name is empty"))
			}
			list.append(&IncludeNode{Pos: it.pos, Name: name})

		case itemBlock:
			keyword, rest := splitDirective(it.val)

			switch keyword {
			case "endif", "elif", "else", "endfor":
				return list, keyword, rest, it.pos
			case "if":
				list.append(p.parseIf(it.pos, rest))
			case "for":
				list.append(p.parseFor(it.pos, rest))
			default:
				panic(newError(ErrUnknownDirective, it.pos, "unknown directive %q", keyword))
			}
		}
	}
}

// parseIf parses an if/elif.../else?/endif block. pos is the position of
// the opening "if" tag; rest is its condition text.
func (p *parser) parseIf(pos Pos, rest string) *IfNode {
	node := &IfNode{Pos: pos}

	cond, err := parseCond(rest, pos)
	if err != nil {
		panic(err)
	}

	body, term, termRest, termPos := p.parseList()
	node.Branches = append(node.Branches, IfBranch{Cond: cond, Body: body})

	sawElse := false
	for {
		switch term {
		case "endif":
			return node

		case "elif":
			if sawElse {
				panic(newError(ErrElifAfterElse, termPos, "elif directive after else"))
			}
			c, err := parseCond(termRest, termPos)
			if err != nil {
				panic(err)
			}
			b, t2, r2, p2 := p.parseList()
			node.Branches = append(node.Branches, IfBranch{Cond: c, Body: b})
			term, termRest, termPos = t2, r2, p2

		case "else":
			if sawElse {
				panic(newError(ErrElseAfterElse, termPos, "duplicate else directive"))
			}
			sawElse = true
			b, t2, r2, p2 := p.parseList()
			node.Else = b
			term, termRest, termPos = t2, r2, p2

		case "endfor":
			panic(strayError(term, termPos))

		case "":
			panic(newError(ErrUnclosedBlock, pos, "unclosed if block"))
		}
	}
}

// parseFor parses a for/endfor loop. pos is the position of the opening
// "for" tag; rest is its "<ident> in <path>" header text.
func (p *parser) parseFor(pos Pos, rest string) *ForNode {
	v, path, err := parseForHeader(rest, pos)
	if err != nil {
		panic(err)
	}

	body, term, _, termPos := p.parseList()
	switch term {
	case "endfor":
		return &ForNode{Pos: pos, Var: v, Path: path, Body: body}
	case "":
		panic(newError(ErrUnclosedBlock, pos, "unclosed for block"))
	default:
		panic(strayError(term, termPos))
	}
}

// splitDirective splits a block tag's raw inner text into its directive
// keyword and the (trimmed) remainder. "else if" is folded into the "elif"
// synonym here, per the spec.
func splitDirective(content string) (keyword, rest string) {
	s := strings.TrimLeftFunc(content, isSpace)

	i := 0
	for i < len(s) && !isSpace(rune(s[i])) {
		i++
	}
	first := s[:i]
	rest = strings.TrimSpace(s[i:])

	if first == "else" {
		j := 0
		for j < len(rest) && !isSpace(rune(rest[j])) {
			j++
		}
		if rest[:j] == "if" {
			return "elif", strings.TrimSpace(rest[j:])
		}
		return "else", rest
	}

	return first, rest
}

// parseVariablePath trims and validates the inner text of a "{{ ... }}" tag.
func parseVariablePath(raw string, pos Pos) ([]string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, newError(ErrEmptyVariable, pos, "variable is empty")
	}

	path := strings.Split(s, ".")
	for _, seg := range path {
		if !isIdentifier(seg) {
			return nil, newError(ErrMalformedExpr, pos, "invalid variable path %q", s)
		}
	}

	return path, nil
}

// parseForHeader parses a "<ident> in <path>" for-header.
func parseForHeader(rest string, pos Pos) (string, []string, error) {
	fields := strings.Fields(rest)
	if len(fields) != 3 || fields[1] != "in" {
		return "", nil, newError(ErrMalformedFor, pos, "expected 'for <ident> in <path>', got %q", rest)
	}
	if !isIdentifier(fields[0]) {
		return "", nil, newError(ErrMalformedFor, pos, "loop variable %q is not a bare identifier", fields[0])
	}

	path := strings.Split(fields[2], ".")
	for _, seg := range path {
		if !isIdentifier(seg) {
			return "", nil, newError(ErrMalformedFor, pos, "invalid iterable path %q", fields[2])
		}
	}

	return fields[0], path, nil
}

// strayError reports a control-flow terminator with no matching opener.
func strayError(keyword string, pos Pos) error {
	switch keyword {
	case "elif":
		return newError(ErrStrayElif, pos, "elif without matching if")
	case "else":
		return newError(ErrStrayElse, pos, "else without matching if")
	case "endif":
		return newError(ErrStrayEndif, pos, "endif without matching if")
	case "endfor":
		return newError(ErrStrayEndfor, pos, "endfor without matching for")
	default:
		return newError(ErrUnknownDirective, pos, "unexpected directive %q", keyword)
	}
}

func newErrorFromItem(it item) error {
	return newError(it.errKind, it.errOffset, "%s", it.val)
}
