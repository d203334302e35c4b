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
	"fmt"

	"golang.org/x/xerrors"
)

// ErrorKind identifies the category of a parse error, per the taxonomy in
// the engine's error handling design.
type ErrorKind int

const (
	ErrUnknownDirective ErrorKind = iota
	ErrEmptyVariable
	ErrEmptyInclude
	ErrUnbalancedDelimiter
	ErrUnclosedBlock
	ErrStrayElif
	ErrStrayElse
	ErrStrayEndif
	ErrStrayEndfor
	ErrElseAfterElse
	ErrElifAfterElse
	ErrMalformedFor
	ErrMalformedExpr
)

var errorKindNames = map[ErrorKind]string{
	ErrUnknownDirective:    "unknown directive",
	ErrEmptyVariable:       "empty variable",
	ErrEmptyInclude:        "empty include",
	ErrUnbalancedDelimiter: "unbalanced delimiter",
	ErrUnclosedBlock:       "unclosed block",
	ErrStrayElif:           "stray elif",
	ErrStrayElse:           "stray else",
	ErrStrayEndif:          "stray endif",
	ErrStrayEndfor:         "stray endfor",
	ErrElseAfterElse:       "else after else",
	ErrElifAfterElse:       "elif after else",
	ErrMalformedFor:        "malformed for header",
	ErrMalformedExpr:       "malformed boolean expression",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("parse.ErrorKind(%d)", int(k))
}

// Error is the concrete error type behind every parse failure. Offset is
// the byte position in the source where the problem was detected.
type Error struct {
	Kind   ErrorKind
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at byte %d: %s", e.Kind, e.Offset, e.Msg)
}

// newError builds and wraps a *Error with golang.org/x/xerrors so that
// callers can xerrors.As into the concrete kind while still getting a
// frame-annotated error message.
func newError(kind ErrorKind, offset Pos, format string, args ...interface{}) error {
	inner := &Error{Kind: kind, Offset: int(offset), Msg: fmt.Sprintf(format, args...)}
	return xerrors.Errorf("minilate: %w", inner)
}
