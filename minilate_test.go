package minilate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineAddAndRender(t *testing.T) {
	e := New()
	require.NoError(t, e.AddTemplate("greet", "hello {{ name }}"))

	ctx := NewContext().Set("name", StringValue("amy"))
	out, err := e.Render("greet", ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello amy", out)
}

func TestEngineAddTemplateEmptyDoesNotOverwrite(t *testing.T) {
	e := New()
	require.NoError(t, e.AddTemplate("t", "original"))
	require.NoError(t, e.AddTemplate("t", "   "))

	out, err := e.Render("t", NewContext())
	require.NoError(t, err)
	assert.Equal(t, "original", out)
}

func TestEngineRenderUnknownTemplate(t *testing.T) {
	e := New()
	_, err := e.Render("nope", NewContext())
	require.Error(t, err)
}

func TestEngineTemplatesLists(t *testing.T) {
	e := New()
	require.NoError(t, e.AddTemplate("a", "x"))
	require.NoError(t, e.AddTemplate("b", "y"))
	assert.ElementsMatch(t, []string{"a", "b"}, e.Templates())
}

func TestEngineWithMaxDepth(t *testing.T) {
	e := New(WithMaxDepth(1))
	require.NoError(t, e.AddTemplate("a", "{{<< b }}"))
	require.NoError(t, e.AddTemplate("b", "leaf"))

	_, err := e.Render("a", NewContext())
	require.Error(t, err)
}

func TestFormatErrorPlain(t *testing.T) {
	e := New()
	require.NoError(t, e.AddTemplate("t", "{{ missing }}"))

	_, err := e.Render("t", NewContext())
	require.Error(t, err)

	msg := FormatError(err, false)
	assert.Contains(t, msg, "render error")
	assert.Contains(t, msg, "unresolved variable")
}

func TestFormatErrorColored(t *testing.T) {
	_, err := New().Render("nope", NewContext())
	require.Error(t, err)

	msg := FormatError(err, true)
	assert.Contains(t, msg, "render error")
}

func TestFormatErrorNil(t *testing.T) {
	assert.Equal(t, "", FormatError(nil, false))
}

func TestObjectAndIterableValues(t *testing.T) {
	e := New()
	require.NoError(t, e.AddTemplate("t", "{{% for u in users %}}{{ u.name }} {{% endfor %}}"))

	users := IterableValue(
		ObjectValue(Pair{Key: "name", Value: StringValue("amy")}),
		ObjectValue(Pair{Key: "name", Value: StringValue("bo")}),
	)
	ctx := NewContext().Set("users", users)

	out, err := e.Render("t", ctx)
	require.NoError(t, err)
	assert.Equal(t, "amy bo ", out)
}
