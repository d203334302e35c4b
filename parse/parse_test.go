package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parseTest struct {
	name    string
	input   string
	wantErr bool
}

func TestParse(t *testing.T) {
	tests := []parseTest{
		{"empty", "", false},
		{"literal only", "hello, world", false},
		{"variable", "hello {{ name }}", false},
		{"dotted variable", "{{ user.profile.name }}", false},
		{"include", "{{<< header }}", false},
		{"if/endif", "{{% if a %}}x{{% endif %}}", false},
		{"if/else/endif", "{{% if a %}}x{{% else %}}y{{% endif %}}", false},
		{"if/elif/else/endif", "{{% if a %}}x{{% elif b %}}y{{% else %}}z{{% endif %}}", false},
		{"else if synonym", "{{% if a %}}x{{% else if b %}}y{{% endif %}}", false},
		{"for/endfor", "{{% for item in items %}}{{ item }}{{% endfor %}}", false},
		{"nested for in if", "{{% if a %}}{{% for x in xs %}}{{ x }}{{% endfor %}}{{% endif %}}", false},
		{"escaped tags", `\{{ literal \{{% literal`, false},

		{"unclosed variable", "{{ oops", true},
		{"unclosed block", "{{% if a %}}x", true},
		{"empty variable", "{{ }}", true},
		{"empty include", "{{<< }}", true},
		{"unknown directive", "{{% bogus %}}", true},
		{"stray elif", "{{% elif a %}}", true},
		{"stray else", "{{% else %}}", true},
		{"stray endif", "{{% endif %}}", true},
		{"stray endfor", "{{% endfor %}}", true},
		{"else after else", "{{% if a %}}x{{% else %}}y{{% else %}}z{{% endif %}}", true},
		{"elif after else", "{{% if a %}}x{{% else %}}y{{% elif b %}}z{{% endif %}}", true},
		{"endfor closing if", "{{% if a %}}x{{% endfor %}}", true},
		{"malformed for header", "{{% for item %}}{{% endfor %}}", true},
		{"malformed condition", "{{% if a && %}}x{{% endif %}}", true},
		{"invalid variable path", "{{ 1abc }}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.name, tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseIfBranchOrder(t *testing.T) {
	tree, err := Parse("t", "{{% if a %}}A{{% elif b %}}B{{% else %}}C{{% endif %}}")
	require.NoError(t, err)
	require.Len(t, tree.Root.Nodes, 1)

	ifNode, ok := tree.Root.Nodes[0].(*IfNode)
	require.True(t, ok)
	require.Len(t, ifNode.Branches, 2)
	require.NotNil(t, ifNode.Else)

	lit := ifNode.Branches[0].Body.Nodes[0].(*LiteralNode)
	assert.Equal(t, "A", string(lit.Text))
	lit = ifNode.Branches[1].Body.Nodes[0].(*LiteralNode)
	assert.Equal(t, "B", string(lit.Text))
	lit = ifNode.Else.Nodes[0].(*LiteralNode)
	assert.Equal(t, "C", string(lit.Text))
}

func TestIsEmptyTree(t *testing.T) {
	tree, err := Parse("t", "   \n\t  ")
	require.NoError(t, err)
	assert.True(t, IsEmptyTree(tree))

	tree, err = Parse("t", "  x  ")
	require.NoError(t, err)
	assert.False(t, IsEmptyTree(tree))

	assert.True(t, IsEmptyTree(nil))
}

func TestSplitDirectiveElseIfSynonym(t *testing.T) {
	keyword, rest := splitDirective(" else if a.b ")
	assert.Equal(t, "elif", keyword)
	assert.Equal(t, "a.b", rest)

	keyword, rest = splitDirective(" else ")
	assert.Equal(t, "else", keyword)
	assert.Equal(t, "", rest)
}

func TestSplitDirectiveElseifIsNotASynonym(t *testing.T) {
	// "elseif" as one word is not recognized as a directive at all; it
	// falls through to ErrUnknownDirective at the call site.
	keyword, _ := splitDirective(" elseif a ")
	assert.Equal(t, "elseif", keyword)
}
