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

// Package value defines the tagged context-value variant the renderer
// evaluates templates against, and the ordered root Context that holds
// them. It has no dependency on parse or render so both can depend on it
// without a cycle; the root minilate package re-exports these types under
// its own public names.
package value

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindIterable
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindIterable:
		return "iterable"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a tagged context value: exactly one of String, Bool, Iterable,
// or Object, per the data model.
type Value struct {
	kind  Kind
	str   string
	b     bool
	items []Value
	obj   *orderedmap.OrderedMap[string, Value]
}

// Pair is one field of an Object value.
type Pair struct {
	Key   string
	Value Value
}

// String builds a String value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool builds a Bool value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Iterable builds an Iterable value from items in order.
func Iterable(items ...Value) Value {
	return Value{kind: KindIterable, items: append([]Value(nil), items...)}
}

// Object builds an Object value from fields in the given order; later
// pairs with a duplicate key overwrite earlier ones, same as repeated map
// assignment would.
func Object(pairs ...Pair) Value {
	om := orderedmap.New[string, Value]()
	for _, p := range pairs {
		om.Set(p.Key, p.Value)
	}
	return Value{kind: KindObject, obj: om}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Truthy implements the truthiness rule used inside boolean expressions:
// Bool is its own value; String/Iterable/Object are truthy iff non-empty.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.str != ""
	case KindIterable:
		return len(v.items) != 0
	case KindObject:
		return v.obj != nil && v.obj.Len() != 0
	default:
		return false
	}
}

// AsString returns v's bytes for substitution: String emits verbatim, Bool
// emits "true"/"false"; Iterable and Object are not substitutable and
// report ok=false.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindBool:
		if v.b {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// Items returns an Iterable's elements in order. ok is false for any other
// kind.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindIterable {
		return nil, false
	}
	return v.items, true
}

// Field descends into an Object by key. ok is false both when v is not an
// Object and when the key is absent.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindObject || v.obj == nil {
		return Value{}, false
	}
	return v.obj.Get(name)
}

// Context is the root, ordered-insertion mapping from identifier to Value
// supplied at render time.
type Context struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{fields: orderedmap.New[string, Value]()}
}

// Set inserts or overwrites name and returns the Context for chaining.
func (c *Context) Set(name string, v Value) *Context {
	c.fields.Set(name, v)
	return c
}

// Get looks up name in the root context only; scoped lookup across loop
// frames is the renderer's concern, not Context's.
func (c *Context) Get(name string) (Value, bool) {
	if c == nil || c.fields == nil {
		return Value{}, false
	}
	return c.fields.Get(name)
}

// Keys returns the root context's keys in insertion order.
func (c *Context) Keys() []string {
	if c == nil || c.fields == nil {
		return nil
	}
	keys := make([]string, 0, c.fields.Len())
	for pair := c.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
