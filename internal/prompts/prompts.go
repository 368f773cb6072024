package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/adrg/frontmatter"
)

//go:embed templates/*.md
var embeddedTemplates embed.FS

// ServerName is substituted for {{.Server}} in every template.
const ServerName = "C4Diagrammer"

var ErrUnknownPrompt = errors.New("prompt not found")

// ArgumentError reports a prompt argument that is missing or has the wrong form.
type ArgumentError struct {
	Prompt   string
	Argument string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("Argument '%s' %s", e.Argument, e.Reason)
}

// Argument describes one template argument as declared in the template frontmatter.
type Argument struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Required    bool     `yaml:"required"`
	Default     string   `yaml:"default"`
	Numeric     bool     `yaml:"numeric"`
	Enum        []string `yaml:"enum"`
	// Placeholder is shown instead of a value when the prompt is published as a resource.
	Placeholder string `yaml:"placeholder"`
}

type header struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Arguments   []Argument `yaml:"arguments"`
}

// Prompt is a parsed template.
type Prompt struct {
	Name        string
	Description string
	Arguments   []Argument

	body *template.Template
}

// Registry holds the embedded prompt templates in name order.
type Registry struct {
	prompts    []*Prompt
	readmeName string
}

// Load parses the embedded templates. readmeName is the per-directory summary file the
// prompts tell the model to write.
func Load(readmeName string) (*Registry, error) {
	return loadFS(embeddedTemplates, "templates", readmeName)
}

func loadFS(fsys fs.FS, dir, readmeName string) (*Registry, error) {
	r := &Registry{readmeName: readmeName}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt templates: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template %s: %w", entry.Name(), err)
		}
		p, err := r.parse(entry.Name(), content)
		if err != nil {
			return nil, err
		}
		if _, exists := r.Get(p.Name); exists {
			return nil, fmt.Errorf("duplicate prompt %q in %s", p.Name, entry.Name())
		}
		r.prompts = append(r.prompts, p)
	}

	slices.SortFunc(r.prompts, func(a, b *Prompt) int { return strings.Compare(a.Name, b.Name) })
	return r, nil
}

func (r *Registry) parse(file string, content []byte) (*Prompt, error) {
	var h header
	body, err := frontmatter.MustParse(bytes.NewReader(content), &h)
	if err != nil {
		return nil, fmt.Errorf("invalid frontmatter in %s: %w", file, err)
	}
	if h.Name == "" {
		return nil, fmt.Errorf("prompt template %s has no name", file)
	}

	tmpl, err := template.New(h.Name).Option("missingkey=error").Parse(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("invalid prompt template %s: %w", file, err)
	}

	// Descriptions may mention the server or readme name too.
	desc, err := template.New("description").Parse(h.Description)
	if err != nil {
		return nil, fmt.Errorf("invalid description in %s: %w", file, err)
	}
	var buf bytes.Buffer
	if err := desc.Execute(&buf, r.baseData()); err != nil {
		return nil, fmt.Errorf("invalid description in %s: %w", file, err)
	}

	return &Prompt{
		Name:        h.Name,
		Description: buf.String(),
		Arguments:   h.Arguments,
		body:        tmpl,
	}, nil
}

func (r *Registry) baseData() map[string]string {
	return map[string]string{
		"Server": ServerName,
		"Readme": r.readmeName,
	}
}

// List returns the prompts sorted by name.
func (r *Registry) List() []*Prompt {
	return slices.Clone(r.prompts)
}

func (r *Registry) Get(name string) (*Prompt, bool) {
	for _, p := range r.prompts {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Expand validates args against the named prompt and returns the prompt text.
func (r *Registry) Expand(name string, args map[string]string) (string, error) {
	p, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	values, err := p.Resolve(args)
	if err != nil {
		return "", err
	}
	return r.execute(p, values)
}

// Placeholder renders the named prompt with each argument shown as {Placeholder}.
func (r *Registry) Placeholder(name string) (string, error) {
	p, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	values := make(map[string]string, len(p.Arguments))
	for _, arg := range p.Arguments {
		ph := arg.Placeholder
		if ph == "" {
			ph = arg.Name
		}
		values[arg.Name] = "{" + ph + "}"
	}
	return r.execute(p, values)
}

func (r *Registry) execute(p *Prompt, values map[string]string) (string, error) {
	data := r.baseData()
	for k, v := range values {
		data[k] = v
	}
	var buf bytes.Buffer
	if err := p.body.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to expand prompt %s: %w", p.Name, err)
	}
	return buf.String(), nil
}

// Resolve checks args against the declared arguments and fills in defaults. Arguments
// the prompt does not declare are ignored.
func (p *Prompt) Resolve(args map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(p.Arguments))
	for _, arg := range p.Arguments {
		v, ok := args[arg.Name]
		if !ok || v == "" {
			if arg.Required {
				return nil, &ArgumentError{Prompt: p.Name, Argument: arg.Name, Reason: "must be a string"}
			}
			values[arg.Name] = arg.Default
			continue
		}
		if arg.Numeric {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return nil, &ArgumentError{Prompt: p.Name, Argument: arg.Name, Reason: "must be a number"}
			}
		}
		if len(arg.Enum) > 0 && !slices.Contains(arg.Enum, v) {
			return nil, &ArgumentError{
				Prompt:   p.Name,
				Argument: arg.Name,
				Reason:   "must be one of " + strings.Join(arg.Enum, ", "),
			}
		}
		values[arg.Name] = v
	}
	return values, nil
}
