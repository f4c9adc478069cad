package analysis

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_LoadAndRender(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/system.tmpl":        {Data: []byte("Answer in about {{lowerBand .Limit}}-{{.Limit}} words.")},
		"templates/report/header.tmpl": {Data: []byte("{{heading .Level 1}} {{upper .Title}} {{num .Value}} {{pct .Share}}")},
		"templates/README.md":          {Data: []byte("ignored")},
	}

	r, err := NewRenderer(fsys, "templates")
	require.NoError(t, err)
	assert.Equal(t, []string{"report/header", "system"}, r.List())
	assert.True(t, r.Has("system"))
	assert.False(t, r.Has("README"))

	out, err := r.Render("system", map[string]int{"Limit": 150})
	require.NoError(t, err)
	assert.Equal(t, "Answer in about 120-150 words.", out)

	out, err = r.Render("report/header", map[string]interface{}{
		"Level": 2, "Title": "loadings", "Value": 0.456, "Share": 0.25,
	})
	require.NoError(t, err)
	assert.Equal(t, "### LOADINGS 0.46 25.0%", out)
}

func TestRenderer_Errors(t *testing.T) {
	_, err := NewRenderer(fstest.MapFS{"t/bad.tmpl": {Data: []byte("{{.Missing")}}, "t")
	require.Error(t, err)

	r, err := NewRenderer(fstest.MapFS{"t/ok.tmpl": {Data: []byte("x")}}, "t")
	require.NoError(t, err)
	_, err = r.Render("nope", nil)
	assert.Error(t, err)
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "#", Heading(1, 0))
	assert.Equal(t, "###", Heading(2, 1))
	assert.Equal(t, "######", Heading(6, 2))
	assert.Equal(t, "#", Heading(0, 0))
}

func TestTableCell(t *testing.T) {
	assert.Equal(t, `A\|B C`, TableCell("A|B\nC"))
	assert.Equal(t, "two words", TableCell("  two\r\n\n  words "))
	assert.Equal(t, "plain", TableCell("plain"))

	r, err := NewRenderer(fstest.MapFS{"t/row.tmpl": {Data: []byte("| {{cell .}} |")}}, "t")
	require.NoError(t, err)
	out, err := r.Render("row", "x|y\nz")
	require.NoError(t, err)
	assert.Equal(t, `| x\|y z |`, out)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", indent(2, "a\n\nb"))
}
