package prompt

// Config describes a prompt definition loaded from markdown with YAML
// frontmatter.
type Config struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Version     string `yaml:"version,omitempty"`

	// SystemTemplate may be set in frontmatter; otherwise the markdown
	// body is the template.
	SystemTemplate string `yaml:"system_template,omitempty"`
}

// Prompt pairs a parsed config with its source for diagnostics.
type Prompt struct {
	Config Config
	Source string
}
