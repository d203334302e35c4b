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

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/minilate/minilate/parse"
	"github.com/minilate/minilate/value"
)

// DefaultMaxDepth bounds nesting depth when a caller does not override it:
// both include recursion and nested if/for blocks share the same counter,
// guarding against a Go stack overflow from a deeply (or infinitely, via a
// cycle) nested template instead of a graceful render error.
const DefaultMaxDepth = 64

// Registry looks up a named, already-parsed template. The root engine
// implements this; render never parses or stores trees itself.
type Registry interface {
	Get(name string) (*parse.Tree, bool)
}

// Lister additionally reports every registered template name, used only to
// produce a helpful "unknown template" error message.
type Lister interface {
	List() []string
}

// state carries the mutable data threaded through one top-level Render call:
// the output buffer and the nesting-depth and include-cycle guards. The
// scope stack is not held here; each render method receives it as a
// []frame argument.
type state struct {
	registry Registry
	maxDepth int
	depth    int
	active   map[string]struct{}
	buf      bytes.Buffer
}

// Render renders the template named entry, looked up in reg, against ctx.
// maxDepth bounds include nesting and nested if/for blocks together; pass
// DefaultMaxDepth for the engine's default.
func Render(entry string, reg Registry, ctx *value.Context, maxDepth int) (out string, err error) {
	tree, ok := reg.Get(entry)
	if !ok {
		return "", newError(ErrUnknownTemplate, entry, nil, "%s", unknownTemplateMsg(entry, reg))
	}

	s := &state{registry: reg, maxDepth: maxDepth, active: map[string]struct{}{}}
	defer s.recover(&err)

	frames := []frame{rootFrame{ctx: ctx}}
	s.enterInclude(entry)
	s.renderList(tree.Root, frames)
	s.leaveInclude(entry)

	return s.buf.String(), nil
}

func unknownTemplateMsg(name string, reg Registry) string {
	if l, ok := reg.(Lister); ok {
		known := l.List()
		if len(known) == 0 {
			known = []string{"none"}
		}
		return fmt.Sprintf("no template named %q is registered (known: %s)", name, strings.Join(known, ", "))
	}
	return fmt.Sprintf("no template named %q is registered", name)
}

// errorf panics with a wrapped *Error; it is caught by recover at the top
// of Render, mirroring the parse package's panic/recover error style.
func (s *state) errorf(kind ErrorKind, template string, path []string, format string, args ...interface{}) {
	panic(newError(kind, template, path, format, args...))
}

func (s *state) recover(errp *error) {
	e := recover()
	if e == nil {
		return
	}
	if err, ok := e.(error); ok {
		*errp = err
		return
	}
	panic(e)
}

// pushDepth increments the shared nesting counter and checks the depth
// invariant, whether the nesting comes from an include or from a
// control-flow block. It panics (caught by recover) rather than returning
// an error so callers deep in node-walking don't need to thread error
// returns through every render* method.
func (s *state) pushDepth() {
	if s.depth >= s.maxDepth {
		s.errorf(ErrDepthExceeded, "", nil, "render nesting depth exceeded %d", s.maxDepth)
	}
	s.depth++
}

func (s *state) popDepth() {
	s.depth--
}

// enterInclude additionally checks the cycle invariant and pushes template
// onto the active-include set; used only at include boundaries, where a
// name is available to detect self/mutual inclusion.
func (s *state) enterInclude(template string) {
	if _, ok := s.active[template]; ok {
		s.errorf(ErrCyclicInclude, template, nil, "template %q includes itself, directly or indirectly", template)
	}
	s.pushDepth()
	s.active[template] = struct{}{}
}

func (s *state) leaveInclude(template string) {
	delete(s.active, template)
	s.popDepth()
}

func (s *state) renderList(list *parse.NodeList, frames []frame) {
	if list == nil {
		return
	}
	for _, n := range list.Nodes {
		s.renderNode(n, frames)
	}
}

func (s *state) renderNode(n parse.Node, frames []frame) {
	switch node := n.(type) {
	case *parse.LiteralNode:
		s.buf.Write(node.Text)
	case *parse.VariableNode:
		s.renderVariable(node, frames)
	case *parse.IncludeNode:
		s.renderInclude(node, frames)
	case *parse.IfNode:
		s.renderIf(node, frames)
	case *parse.ForNode:
		s.renderFor(node, frames)
	}
}

func (s *state) renderVariable(n *parse.VariableNode, frames []frame) {
	v, status := resolve(n.Path, frames)
	switch status {
	case resolveUnbound:
		s.errorf(ErrUnresolvedVariable, "", n.Path, "variable %q is not defined", pathString(n.Path))
	case resolveNotObject:
		s.errorf(ErrTypeMismatch, "", n.Path, "variable %q cannot be resolved: a path segment is not an object or the key is missing", pathString(n.Path))
	}

	str, ok := v.AsString()
	if !ok {
		s.errorf(ErrTypeMismatch, "", n.Path, "variable %q is a %s and cannot be substituted into text", pathString(n.Path), v.Kind())
	}

	s.buf.WriteString(str)
}

func (s *state) renderIf(n *parse.IfNode, frames []frame) {
	s.pushDepth()
	defer s.popDepth()

	for _, branch := range n.Branches {
		if evalCond(branch.Cond, frames) {
			s.renderList(branch.Body, frames)
			return
		}
	}
	if n.Else != nil {
		s.renderList(n.Else, frames)
	}
}

func (s *state) renderFor(n *parse.ForNode, frames []frame) {
	v, status := resolve(n.Path, frames)
	switch status {
	case resolveUnbound:
		s.errorf(ErrUnresolvedVariable, "", n.Path, "iterable %q is not defined", pathString(n.Path))
	case resolveNotObject:
		s.errorf(ErrTypeMismatch, "", n.Path, "iterable %q cannot be resolved: a path segment is not an object or the key is missing", pathString(n.Path))
	}

	items, ok := v.Items()
	if !ok {
		s.errorf(ErrTypeMismatch, "", n.Path, "%q is a %s and cannot be iterated", pathString(n.Path), v.Kind())
	}

	s.pushDepth()
	defer s.popDepth()

	for _, item := range items {
		inner := append(append([]frame(nil), frames...), loopFrame{name: n.Var, val: item})
		s.renderList(n.Body, inner)
	}
}

func (s *state) renderInclude(n *parse.IncludeNode, frames []frame) {
	tree, ok := s.registry.Get(n.Name)
	if !ok {
		s.errorf(ErrUnknownTemplate, n.Name, nil, "%s", unknownTemplateMsg(n.Name, s.registry))
	}

	s.enterInclude(n.Name)
	s.renderList(tree.Root, frames)
	s.leaveInclude(n.Name)
}

func pathString(path []string) string {
	return strings.Join(path, ".")
}
