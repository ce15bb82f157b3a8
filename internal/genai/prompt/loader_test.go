package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesFrontmatterAndBody(t *testing.T) {
	data := []byte("---\nslug: sample\nname: Sample\nversion: \"1.0\"\n---\nRewrite the text plainly.\n")

	p, err := Load("sample.md", data)
	require.NoError(t, err)
	require.Equal(t, "sample", p.Config.Slug)
	require.Equal(t, "Sample", p.Config.Name)
	require.Equal(t, "Rewrite the text plainly.", p.Config.SystemTemplate)
}

func TestLoadRejectsMissingSlug(t *testing.T) {
	data := []byte("---\nname: NoSlug\n---\nBody text.\n")

	_, err := Load("noslug.md", data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing slug")
}

func TestLoadRejectsEmptyTemplate(t *testing.T) {
	data := []byte("---\nslug: empty\n---\n")

	_, err := Load("empty.md", data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing system_template")
}

func TestDefaultRegistryContainsRewritePrompt(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	p, err := reg.Get("rewrite")
	require.NoError(t, err)
	require.NotEmpty(t, p.Config.SystemTemplate)
	require.Contains(t, p.Config.SystemTemplate, "Rewrite the text")
}

func TestRegistryRejectsDuplicateSlugs(t *testing.T) {
	a := &Prompt{Config: Config{Slug: "dup", SystemTemplate: "a"}}
	b := &Prompt{Config: Config{Slug: "dup", SystemTemplate: "b"}}

	_, err := NewRegistry([]*Prompt{a, b})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate prompt slug")
}
