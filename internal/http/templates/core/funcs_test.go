package core

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleBadgeColor(t *testing.T) {
	assert.Equal(t, "#FF4B4B", RoleBadgeColor("Admin"))
	assert.Equal(t, "#FFA500", RoleBadgeColor("Superuser"))
	assert.Equal(t, "#0068C9", RoleBadgeColor("User"))
	assert.Equal(t, "#666666", RoleBadgeColor("Guest"))
	assert.Equal(t, "#666666", RoleBadgeColor(""))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1234, "1,234"},
		{-1234567, "-1,234,567"},
		{int64(1000000), "1,000,000"},
		{uint(45200), "45,200"},
		{"n/a", "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumberTemplate(tt.in))
	}
}

func TestJoinAny(t *testing.T) {
	assert.Equal(t, "Admin or Superuser", JoinAny([]string{"Admin", "Superuser"}, " or "))
	assert.Empty(t, JoinAny(nil, ", "))
}

func TestRenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return strings.ToLower(page) + "-content" },
	})

	var err error
	tmpl, err = template.New("root").Funcs(funcs).Parse(
		`{{define "home-content"}}<p>{{.}}</p>{{end}}{{define "page"}}{{renderSection "Home" .}}{{end}}`)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, tmpl.ExecuteTemplate(&sb, "page", "<b>hi</b>"))
	assert.Equal(t, "<p>&lt;b&gt;hi&lt;/b&gt;</p>", sb.String())
}

func TestRenderSection_Uninitialized(t *testing.T) {
	funcs := Funcs(Deps{ContentTemplateFor: func(string) string { return "x" }})
	render := funcs["renderSection"].(func(string, any) (template.HTML, error))
	_, err := render("Home", nil)
	assert.Error(t, err)
}
