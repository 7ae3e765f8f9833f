package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/grievance-service/internal/domain"
)

func TestNewLoadsEveryPage(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)
	for _, name := range []string{Layout, "index", "department", "login", "admin_login", "admin_dashboard", "respond_grievance", "error"} {
		assert.NotNil(t, engine.Templates.Lookup(name), name)
	}
}

func TestRenderIndexInsideLayout(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "index", map[string]any{
		"Title":       "Departments",
		"Departments": domain.Departments(),
	}, Layout))
	html := buf.String()
	assert.Contains(t, html, `<a href="/department/public-works">Public Works</a>`)
	assert.Contains(t, html, `<a href="/login">Login</a>`)
	assert.Contains(t, html, "<title>Departments</title>")
}

func TestRenderEscapesUserContent(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	resp := "<b>done</b>"
	var buf bytes.Buffer
	err = engine.Render(&buf, "department", map[string]any{
		"Department":  domain.DepartmentHealth,
		"Grievances":  []domain.Grievance{{Title: "<script>x</script>", Status: domain.GrievanceStatusResponded, Response: &resp}},
		"CurrentUser": &domain.User{Username: "user"},
	}, Layout)
	require.NoError(t, err)
	html := buf.String()
	assert.NotContains(t, html, "<script>x</script>")
	assert.Contains(t, html, "&lt;b&gt;done&lt;/b&gt;")
	assert.Contains(t, html, `<a href="/logout">Logout</a>`)
	assert.Contains(t, html, "<title>Grievance Portal</title>")
}

func TestRenderUnknownPage(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)
	assert.Error(t, engine.Render(&bytes.Buffer{}, "missing", nil, Layout))
}
