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
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

// ErrorKind identifies the category of a render error.
type ErrorKind int

const (
	ErrUnresolvedVariable ErrorKind = iota
	ErrTypeMismatch
	ErrUnknownTemplate
	ErrCyclicInclude
	ErrDepthExceeded
	ErrDuplicateTemplate
)

var errorKindNames = map[ErrorKind]string{
	ErrUnresolvedVariable: "unresolved variable",
	ErrTypeMismatch:       "type mismatch",
	ErrUnknownTemplate:    "unknown template",
	ErrCyclicInclude:      "cyclic include",
	ErrDepthExceeded:      "recursion depth exceeded",
	ErrDuplicateTemplate:  "duplicate template registration",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("render.ErrorKind(%d)", int(k))
}

// Error is the concrete error type behind every render failure. Template
// names the template that is not registered (ErrUnknownTemplate) or that
// was entered a second time (ErrCyclicInclude); it is empty for the other
// kinds, which do not record the template being rendered. Path is the
// variable or iterable path involved, when applicable.
type Error struct {
	Kind     ErrorKind
	Template string
	Path     []string
	Msg      string
}

func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: template %q: %s", e.Kind, e.Template, e.Msg)
	}
	return fmt.Sprintf("%s: template %q, path %q: %s", e.Kind, e.Template, strings.Join(e.Path, "."), e.Msg)
}

// newError builds and wraps a *Error with golang.org/x/xerrors, matching
// the parse package's error construction style.
func newError(kind ErrorKind, template string, path []string, format string, args ...interface{}) error {
	inner := &Error{Kind: kind, Template: template, Path: path, Msg: fmt.Sprintf(format, args...)}
	return xerrors.Errorf("minilate: %w", inner)
}
