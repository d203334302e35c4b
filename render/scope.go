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
	"github.com/minilate/minilate/parse"
	"github.com/minilate/minilate/value"
)

// frame is one level of the name-resolution stack. The root context is a
// frame; each for-loop iteration pushes one more, binding its loop
// variable to the current element.
type frame interface {
	lookup(name string) (value.Value, bool)
}

type rootFrame struct {
	ctx *value.Context
}

func (f rootFrame) lookup(name string) (value.Value, bool) {
	return f.ctx.Get(name)
}

type loopFrame struct {
	name string
	val  value.Value
}

func (f loopFrame) lookup(name string) (value.Value, bool) {
	if name == f.name {
		return f.val, true
	}
	return value.Value{}, false
}

// resolveStatus distinguishes why a path failed to resolve to a value, so
// callers outside a boolean context can raise the right ErrorKind: §4.3
// treats both failures as "absent" for truthiness, but §7 requires
// unresolved and type-mismatch failures to surface as distinct kinds
// everywhere else.
type resolveStatus int

const (
	resolveOK resolveStatus = iota
	// resolveUnbound means path's first segment has no binding in any frame.
	resolveUnbound
	// resolveNotObject means the first segment resolved, but a later
	// segment descended through a non-Object value or missed a key.
	resolveNotObject
)

// resolve walks frames innermost (end of slice) to outermost looking for
// path's first segment, then descends the remaining segments through
// Objects.
func resolve(path []string, frames []frame) (value.Value, resolveStatus) {
	var cur value.Value
	found := false

	for i := len(frames) - 1; i >= 0; i-- {
		if v, ok := frames[i].lookup(path[0]); ok {
			cur, found = v, true
			break
		}
	}
	if !found {
		return value.Value{}, resolveUnbound
	}

	for _, seg := range path[1:] {
		v, ok := cur.Field(seg)
		if !ok {
			return value.Value{}, resolveNotObject
		}
		cur = v
	}

	return cur, resolveOK
}

// evalCond evaluates a boolean condition expression against the scope
// stack, per the truthiness rule in §4.3. An absent leaf path is false.
func evalCond(n parse.CondNode, frames []frame) bool {
	switch e := n.(type) {
	case *parse.NotExpr:
		return !evalCond(e.X, frames)
	case *parse.AndExpr:
		return evalCond(e.X, frames) && evalCond(e.Y, frames)
	case *parse.OrExpr:
		return evalCond(e.X, frames) || evalCond(e.Y, frames)
	case *parse.PathExpr:
		v, status := resolve(e.Path, frames)
		if status != resolveOK {
			return false
		}
		return v.Truthy()
	default:
		return false
	}
}
