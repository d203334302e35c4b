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

// Package minilate implements a small text-templating engine supporting
// variable substitution, boolean conditionals, loops over iterables, and
// template includes.
package minilate

import (
	"strconv"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/xerrors"

	"github.com/minilate/minilate/parse"
	"github.com/minilate/minilate/render"
	"github.com/minilate/minilate/value"
)

// Context, Value, Pair and Kind are re-exported from the value package so
// callers never need to import it directly; render and minilate share the
// same concrete types without creating an import cycle between them.
type (
	Context = value.Context
	Value   = value.Value
	Pair    = value.Pair
	Kind    = value.Kind
)

// Value kinds, re-exported for convenience.
const (
	KindString   = value.KindString
	KindBool     = value.KindBool
	KindIterable = value.KindIterable
	KindObject   = value.KindObject
)

// NewContext returns an empty Context ready for Set calls.
func NewContext() *Context { return value.NewContext() }

// StringValue builds a String value.
func StringValue(s string) Value { return value.String(s) }

// BoolValue builds a Bool value.
func BoolValue(b bool) Value { return value.Bool(b) }

// IterableValue builds an Iterable value from items in order.
func IterableValue(items ...Value) Value { return value.Iterable(items...) }

// ObjectValue builds an Object value from fields in the given order.
func ObjectValue(pairs ...Pair) Value { return value.Object(pairs...) }

// Engine holds a set of named, parsed templates and renders them. It is
// safe for concurrent use: AddTemplate and Render may be called from
// multiple goroutines, the same guarantee the teacher's Template type gives
// its common.tmpl map.
type Engine struct {
	mu       sync.RWMutex
	trees    map[string]*parse.Tree
	maxDepth int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithMaxDepth overrides the default bound on nesting depth, which include
// recursion and nested if/for blocks share.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// New returns an empty Engine with no templates registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		trees:    make(map[string]*parse.Tree),
		maxDepth: render.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddTemplate parses source and registers it under name, replacing any
// template previously registered under the same name. As a special case,
// parsing an empty (whitespace-only) source never overwrites a
// non-empty template already registered under name, mirroring the
// teacher's AddParseTree guard against accidental blanking of a template
// by a later, empty redefinition.
func (e *Engine) AddTemplate(name, source string) error {
	tree, err := parse.Parse(name, source)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if parse.IsEmptyTree(tree) {
		if existing, ok := e.trees[name]; ok && !parse.IsEmptyTree(existing) {
			return nil
		}
	}

	e.trees[name] = tree
	return nil
}

// Get implements render.Registry.
func (e *Engine) Get(name string) (*parse.Tree, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.trees[name]
	return t, ok
}

// List implements render.Lister.
func (e *Engine) List() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.trees))
	for name := range e.trees {
		names = append(names, name)
	}
	return names
}

// Templates returns the names of every template currently registered.
func (e *Engine) Templates() []string {
	return e.List()
}

// Render renders the template named name against ctx.
func (e *Engine) Render(name string, ctx *Context) (string, error) {
	e.mu.RLock()
	maxDepth := e.maxDepth
	e.mu.RUnlock()

	return render.Render(name, e, ctx, maxDepth)
}

// FormatError renders err for display, highlighting the kind and location
// of the underlying *parse.Error or *render.Error if err wraps one. When
// colored is true, the message is decorated with ANSI color codes via
// fatih/color; otherwise it is plain text.
func FormatError(err error, colored bool) string {
	if err == nil {
		return ""
	}

	var perr *parse.Error
	if xerrors.As(err, &perr) {
		return formatKindedError("parse", perr.Kind.String(), int(perr.Offset), perr.Msg, colored)
	}

	var rerr *render.Error
	if xerrors.As(err, &rerr) {
		return formatKindedError("render", rerr.Kind.String(), -1, rerr.Template+": "+rerr.Msg, colored)
	}

	return err.Error()
}

func formatKindedError(stage, kind string, offset int, msg string, colored bool) string {
	label := stage + " error"
	if colored {
		bold := color.New(color.Bold, color.FgRed).SprintFunc()
		kindc := color.New(color.FgYellow).SprintFunc()
		if offset >= 0 {
			return bold(label) + ": " + kindc(kind) + " (byte " + strconv.Itoa(offset) + "): " + msg
		}
		return bold(label) + ": " + kindc(kind) + ": " + msg
	}

	if offset >= 0 {
		return label + ": " + kind + " (byte " + strconv.Itoa(offset) + "): " + msg
	}
	return label + ": " + kind + ": " + msg
}
