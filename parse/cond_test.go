package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCond(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"bare path", "a.b.c", true},
		{"not", "!a", true},
		{"and", "a && b", true},
		{"or", "a || b", true},
		{"mixed precedence", "a && b || c", true},
		{"not binds tighter than and", "!a && b", true},
		{"parens", "!(a && b) || c", true},
		{"double not", "!!a", true},
		{"empty", "", false},
		{"trailing garbage", "a b", false},
		{"unclosed paren", "(a && b", false},
		{"dangling operator", "a &&", false},
		{"bad path segment", "a..b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCond(tt.input, 0)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestParseCondPrecedence(t *testing.T) {
	// "a || b && c" should parse as "a || (b && c)": OrExpr{a, AndExpr{b,c}}.
	cond, err := parseCond("a || b && c", 0)
	require.NoError(t, err)

	or, ok := cond.(*OrExpr)
	require.True(t, ok, "expected top-level OrExpr, got %T", cond)

	_, ok = or.X.(*PathExpr)
	assert.True(t, ok, "expected left operand to be a bare path")

	_, ok = or.Y.(*AndExpr)
	assert.True(t, ok, "expected right operand to be an AndExpr")
}

func TestParseCondNotPrecedence(t *testing.T) {
	// "!a && b" should parse as "(!a) && b", not "!(a && b)".
	cond, err := parseCond("!a && b", 0)
	require.NoError(t, err)

	and, ok := cond.(*AndExpr)
	require.True(t, ok, "expected top-level AndExpr, got %T", cond)

	_, ok = and.X.(*NotExpr)
	assert.True(t, ok, "expected left operand to be a NotExpr")
}
