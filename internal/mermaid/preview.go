package mermaid

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"c4diagrammer/internal/logging"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// MermaidScriptURL is the renderer loaded by preview pages.
const MermaidScriptURL = "https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
   <head>
      <meta charset="utf-8">
      <title>{{.Title}}</title>
      <script src="{{.ScriptURL}}"></script>
      <script>
         mermaid.initialize({ startOnLoad: true });
      </script>
   </head>
   <body>
      <pre class="mermaid">
{{.Diagram}}
      </pre>
   </body>
</html>
`))

// Opener shows a file to the user, normally in a browser.
type Opener func(ctx context.Context, path string) error

// PreviewOptions configures a Previewer. Zero values fall back to os.TempDir(), a one
// minute lifetime and the platform browser opener.
type PreviewOptions struct {
	TempDir        string
	DeleteAfter    time.Duration
	BrowserCommand string
	// OpenBrowser false only writes the page.
	OpenBrowser bool
	// Opener replaces the command based opener when set.
	Opener Opener
}

// Previewer writes diagram pages and schedules their removal.
type Previewer struct {
	tempDir     string
	deleteAfter time.Duration
	open        Opener
	logger      *logging.AppLogger
	labels      *bluemonday.Policy

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewPreviewer(opts PreviewOptions, logger *logging.AppLogger) *Previewer {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.DeleteAfter <= 0 {
		opts.DeleteAfter = time.Minute
	}

	open := opts.Opener
	if open == nil && opts.OpenBrowser {
		open = CommandOpener(opts.BrowserCommand)
	}

	// Labels may carry simple formatting; anything scriptable is dropped.
	labels := bluemonday.NewPolicy()
	labels.AllowElements("b", "i", "u", "em", "strong", "br", "sub", "sup", "small", "span")

	return &Previewer{
		tempDir:     opts.TempDir,
		deleteAfter: opts.DeleteAfter,
		open:        open,
		logger:      logger,
		labels:      labels,
		pending:     make(map[string]*time.Timer),
	}
}

// Preview writes a page rendering diagram, opens it and returns its path. The page is
// deleted after the configured delay whether or not opening succeeded.
func (p *Previewer) Preview(ctx context.Context, diagram string) (string, error) {
	page, err := p.RenderHTML(diagram)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}
	path := filepath.Join(p.tempDir, "preview-"+uuid.NewString()+".html")
	if err := os.WriteFile(path, page, 0o600); err != nil {
		return "", fmt.Errorf("failed to write preview: %w", err)
	}
	p.scheduleDelete(path)

	if p.open != nil {
		if err := p.open(ctx, path); err != nil {
			return "", fmt.Errorf("failed to open preview: %w", err)
		}
	}

	p.logger.Debug("Preview written", "path", path, "delete_after", p.deleteAfter)
	return path, nil
}

// PreviewMarkdown previews the first mermaid block of a markdown document. A document
// without one is treated as diagram text.
func (p *Previewer) PreviewMarkdown(ctx context.Context, source []byte) (string, error) {
	diagram, ok := FirstBlock(source)
	if !ok {
		diagram = Clean(string(source))
	}
	return p.Preview(ctx, diagram)
}

// RenderHTML builds the preview page for diagram.
func (p *Previewer) RenderHTML(diagram string) ([]byte, error) {
	meta, body, _, err := Split(Clean(diagram))
	if err != nil {
		// Leave malformed frontmatter for the renderer to report.
		body = Clean(diagram)
	}

	title := "Mermaid Preview"
	if meta.Title != "" {
		title = meta.Title + " - " + title
	}

	var buf bytes.Buffer
	err = previewTemplate.Execute(&buf, struct {
		Title     string
		ScriptURL string
		Diagram   string
	}{
		Title:     title,
		ScriptURL: MermaidScriptURL,
		Diagram:   p.sanitizeLabels(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.Bytes(), nil
}

var quotedLabel = regexp.MustCompile(`"[^"]*"`)

func (p *Previewer) sanitizeLabels(diagram string) string {
	return quotedLabel.ReplaceAllStringFunc(diagram, func(label string) string {
		if !strings.ContainsRune(label, '<') {
			return label
		}
		return `"` + p.labels.Sanitize(label[1:len(label)-1]) + `"`
	})
}

func (p *Previewer) scheduleDelete(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending[path] = time.AfterFunc(p.deleteAfter, func() {
		p.mu.Lock()
		delete(p.pending, path)
		p.mu.Unlock()

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("Failed to remove preview", "path", path, "error", err)
		}
	})
}

// Pending returns the number of preview pages not yet deleted.
func (p *Previewer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Close removes every preview page still waiting for its timer.
func (p *Previewer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for path, timer := range p.pending {
		if timer.Stop() {
			os.Remove(path)
		}
		delete(p.pending, path)
	}
}

// CommandOpener returns an Opener running command with the path appended. An empty
// command selects the platform default.
func CommandOpener(command string) Opener {
	return func(ctx context.Context, path string) error {
		var args []string
		if fields := strings.Fields(command); len(fields) > 0 {
			args = append(fields, path)
		} else {
			args = defaultOpenCommand(path)
		}

		cmd := exec.Command(args[0], args[1:]...)
		if err := cmd.Start(); err != nil {
			return err
		}
		// Reap the opener without blocking the request.
		go func() { _ = cmd.Wait() }()
		return nil
	}
}

func defaultOpenCommand(path string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", path}
	case "windows":
		return []string{"cmd", "/c", "start", "", path}
	default:
		return []string{"xdg-open", path}
	}
}
