package mermaid

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"c4diagrammer/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "flowchart", input: "\n            flowchart LR\n                A --> B", want: KindFlowchart},
		{name: "graph keyword", input: "graph TD; A-->B;", want: KindFlowchart},
		{name: "elk flowchart", input: "flowchart-elk TD\nA-->B", want: KindFlowchartElk},
		{name: "sequence", input: "sequenceDiagram\n  Alice->>John: Hello John, how are you?\n  John-->>Alice: Great!", want: KindSequence},
		{name: "c4 component", input: "C4Component\n  title Component diagram\n  Container_Boundary(b1, \"boundary\") {\n    Component(c1, \"component\")\n  }", want: KindC4},
		{name: "c4 context", input: "C4Context\n title x", want: KindC4},
		{name: "class v2", input: "classDiagram-v2\n A <|-- B", want: KindClass},
		{name: "state", input: "stateDiagram-v2\n [*] --> S", want: KindState},
		{name: "er", input: "erDiagram\n A ||--o{ B : has", want: KindER},
		{name: "gantt", input: "gantt\n title x", want: KindGantt},
		{name: "pie", input: "pie showData\n \"a\" : 1", want: KindPie},
		{name: "mindmap", input: "mindmap\n root", want: KindMindmap},
		{name: "sankey beta", input: "sankey-beta\n a,b,1", want: KindSankey},
		{name: "mangled header", input: "\n          flewchart LR\n              A --> B\n              Banana\n      ", want: ""},
		{name: "invalid syntax", input: "\n            invalid diagram syntax", want: ""},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   \n   \t   ", want: ""},
		{name: "code fence", input: "\n          ```mermaid\n          flowchart LR\n              A --> B\n          ```\n      ", want: KindFlowchart},
		{name: "nested code fences", input: "```mermaid\n```mermaid\nflowchart LR\n  A --> B\n```\n```", want: KindFlowchart},
		{name: "comment before header", input: "%% a comment\n%%{init: {'theme':'dark'}}%%\nsequenceDiagram\n A->>B: x", want: KindSequence},
		{name: "frontmatter", input: "---\ntitle: Orders\n---\nflowchart LR\n A-->B", want: KindFlowchart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.input))
		})
	}
}

func TestSplit(t *testing.T) {
	meta, body, offset, err := Split("---\ntitle: Orders\ndisplayMode: compact\n---\nflowchart LR\n A-->B")
	require.NoError(t, err)
	assert.Equal(t, "Orders", meta.Title)
	assert.Equal(t, "compact", meta.DisplayMode)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(body), "flowchart LR"))
	assert.Equal(t, 4, offset)

	meta, body, offset, err = Split("flowchart LR")
	require.NoError(t, err)
	assert.Empty(t, meta.Title)
	assert.Equal(t, "flowchart LR", body)
	assert.Zero(t, offset)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		errorText string
		line      int
	}{
		{name: "flowchart", input: "\n            flowchart LR\n                A --> B\n        "},
		{name: "flowchart header statements", input: "graph TD; A-->B;"},
		{name: "flowchart shapes", input: "flowchart TD\n A[Start] --> B{Is it?}\n B -->|Yes| C((Circle))\n C --> D>Flag]\n D --> E[(Database)]\n E --> F[\"Quoted; with semicolon\"]"},
		{name: "flowchart subgraph", input: "flowchart TB\n subgraph one\n  a1-->a2\n end\n one --> two"},
		{name: "code fence", input: "\n ```mermaid\n flowchart LR\n   A --> B\n ```\n"},
		{name: "sequence", input: "sequenceDiagram\n  participant Alice\n  Alice->>John: Hello John, how are you?\n  John-->>Alice: Great!\n  Note right of John: thinking (hard\n  loop Every minute\n    John-)Alice: ping\n  end"},
		{
			name:      "misspelt header",
			input:     "\n            flochart LR\n                A --- > B\n        ",
			wantErr:   true,
			errorText: "No diagram type detected",
		},
		{
			name:      "malformed link",
			input:     "flowchart LR\n  A --- > B",
			wantErr:   true,
			errorText: "Malformed link",
			line:      2,
		},
		{
			name:      "sequence missing arrow",
			input:     "\n            sequenceDiagram\n                Alice calls John: Missing arrow   \n        ",
			wantErr:   true,
			errorText: "Expecting a message",
			line:      2,
		},
		{
			name:      "unclosed loop",
			input:     "sequenceDiagram\n loop forever\n  A->>B: x",
			wantErr:   true,
			errorText: "Expecting 'end'",
			line:      3,
		},
		{
			name:      "stray end",
			input:     "flowchart LR\n A-->B\n end",
			wantErr:   true,
			errorText: "Unexpected 'end'",
			line:      3,
		},
		{
			name:      "unbalanced bracket",
			input:     "flowchart LR\n A[Start --> B",
			wantErr:   true,
			errorText: "Unclosed '['",
			line:      2,
		},
		{
			name:      "unterminated string",
			input:     "flowchart LR\n A[\"Start] --> B",
			wantErr:   true,
			errorText: "Unterminated string",
			line:      2,
		},
		{
			name:      "frontmatter counts toward line numbers",
			input:     "---\ntitle: x\n---\nflowchart LR\n A[Start --> B",
			wantErr:   true,
			errorText: "Unclosed",
			line:      5,
		},
		{name: "class diagram with body", input: "classDiagram\n class Animal {\n  +int age\n  +isMammal() bool\n }\n Animal <|-- Duck : inherits (mostly"},
		{name: "er cardinalities", input: "erDiagram\n CUSTOMER ||--o{ ORDER : places\n ORDER ||--|{ LINE-ITEM : contains"},
		{name: "mindmap shapes", input: "mindmap\n  root((x))\n    )cloud(\n    ))bang(("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorText)
			if tt.line > 0 {
				var syntaxErr *SyntaxError
				require.ErrorAs(t, err, &syntaxErr)
				assert.Equal(t, tt.line, syntaxErr.Line)
			}
		})
	}
}

func TestValidate_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n   \t   ", "```mermaid\n```", "---\ntitle: only\n---\n"} {
		assert.ErrorIs(t, Validate(input), ErrEmptyDiagram, "input %q", input)
	}
}

func TestValidate_C4(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		errorText string
	}{
		{
			name: "component diagram",
			input: `C4Component
    title Component diagram for Internet Banking System
    Container(spa, "Single Page Application", "javascript and angular", "Provides banking functionality")
    Container_Boundary(api, "API Application") {
        Component(sign, "Sign In Controller", "MVC Rest Controller", "Allows users to sign in")
        Component(security, "Security Component", "Spring Bean")
    }
    ContainerDb(db, "Database", "Relational Database Schema")
    Rel(spa, sign, "Uses", "JSON/HTTPS")
    Rel(security, db, "Read & write to", "JDBC")
    UpdateRelStyle(spa, sign, $textColor="red", $offsetY="-40")
    UpdateLayoutConfig($c4ShapeInRow="3", $c4BoundaryInRow="1")`,
		},
		{
			name:      "unknown macro",
			input:     "C4Context\n Persn(a, \"A\")",
			errorText: "Unknown C4 element 'Persn'",
		},
		{
			name:      "relationship without label",
			input:     "C4Context\n Person(a, \"A\")\n System(b, \"B\")\n Rel(a, b)",
			errorText: "needs at least 3 arguments",
		},
		{
			name:      "free text",
			input:     "C4Container\n a uses b",
			errorText: "Expecting a C4 element",
		},
		{
			name:      "unclosed boundary",
			input:     "C4Container\n System_Boundary(s, \"S\") {\n  Container(c, \"C\")",
			errorText: "Expecting '}'",
		},
		{
			name:      "extra closing brace",
			input:     "C4Container\n Container(c, \"C\")\n }",
			errorText: "Unexpected '}'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.errorText == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorText)
		})
	}
}

func TestIsC4Type(t *testing.T) {
	assert.True(t, IsC4Type("C4Context"))
	assert.True(t, IsC4Type("C4Deployment"))
	assert.False(t, IsC4Type("C4Dynamic"))
	assert.False(t, IsC4Type("c4context"))
}

func TestExtractBlocks(t *testing.T) {
	source := []byte("# Title\n\nSome text.\n\n```go\nfunc main() {}\n```\n\n```mermaid\nflowchart LR\n  A-->B\n```\n\n- item\n\n```Mermaid\nsequenceDiagram\n  A->>B: hi\n```\n")

	blocks := ExtractBlocks(source)
	require.Len(t, blocks, 2)
	assert.Equal(t, "flowchart LR\n  A-->B\n", blocks[0])
	assert.Equal(t, "sequenceDiagram\n  A->>B: hi\n", blocks[1])

	first, ok := FirstBlock(source)
	assert.True(t, ok)
	assert.Equal(t, blocks[0], first)

	_, ok = FirstBlock([]byte("no diagrams here"))
	assert.False(t, ok)
}

func newTestPreviewer(t *testing.T, opener Opener) (*Previewer, string) {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	dir := t.TempDir()
	p := NewPreviewer(PreviewOptions{
		TempDir:     dir,
		DeleteAfter: time.Hour,
		OpenBrowser: opener != nil,
		Opener:      opener,
	}, logger)
	t.Cleanup(p.Close)
	return p, dir
}

func TestPreview(t *testing.T) {
	var opened atomic.Value
	p, dir := newTestPreviewer(t, func(_ context.Context, path string) error {
		opened.Store(path)
		return nil
	})

	path, err := p.Preview(context.Background(), "graph TD; A-->B;")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "preview")
	assert.Equal(t, path, opened.Load())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(content)
	assert.Contains(t, page, `<script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js">`)
	assert.Contains(t, page, `<pre class="mermaid">`)
	assert.Contains(t, page, "mermaid.initialize")
	assert.Contains(t, page, "graph TD; A--&gt;B;")
	assert.Equal(t, 1, p.Pending())
}

func TestPreview_EmptyDiagram(t *testing.T) {
	p, _ := newTestPreviewer(t, nil)

	path, err := p.Preview(context.Background(), "")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPreview_OpenerFailure(t *testing.T) {
	p, dir := newTestPreviewer(t, func(context.Context, string) error {
		return errors.New("no browser")
	})

	path, err := p.Preview(context.Background(), "flowchart LR\n A-->B")
	assert.Error(t, err)
	assert.Empty(t, path)

	// the page is still cleaned up on schedule
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, p.Pending())
}

func TestPreview_DeletesAfterDelay(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	p := NewPreviewer(PreviewOptions{TempDir: t.TempDir(), DeleteAfter: 20 * time.Millisecond}, logger)

	path, err := p.Preview(context.Background(), "flowchart LR\n A-->B")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err) && p.Pending() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPreview_Close(t *testing.T) {
	p, _ := newTestPreviewer(t, nil)

	path, err := p.Preview(context.Background(), "flowchart LR\n A-->B")
	require.NoError(t, err)

	p.Close()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Zero(t, p.Pending())
}

func TestPreviewMarkdown(t *testing.T) {
	p, _ := newTestPreviewer(t, nil)

	path, err := p.PreviewMarkdown(context.Background(), []byte("# Doc\n\n```mermaid\nsequenceDiagram\n  A->>B: hi\n```\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "sequenceDiagram")
	assert.NotContains(t, string(content), "# Doc")
}

func TestRenderHTML(t *testing.T) {
	p, _ := newTestPreviewer(t, nil)

	t.Run("frontmatter title", func(t *testing.T) {
		page, err := p.RenderHTML("---\ntitle: Orders\n---\nflowchart LR\n A-->B")
		require.NoError(t, err)
		assert.Contains(t, string(page), "<title>Orders - Mermaid Preview</title>")
		assert.NotContains(t, string(page), "title: Orders")
	})

	t.Run("scripts stripped from labels", func(t *testing.T) {
		page, err := p.RenderHTML("flowchart LR\n A[\"<b>bold</b><script>alert(1)</script>\"] --> B")
		require.NoError(t, err)
		assert.NotContains(t, string(page), "alert(1)")
		assert.Contains(t, string(page), "&lt;b&gt;bold&lt;/b&gt;")
	})

	t.Run("markup outside labels is escaped", func(t *testing.T) {
		page, err := p.RenderHTML("classDiagram\n class Shape\n <<interface>> Shape")
		require.NoError(t, err)
		assert.Contains(t, string(page), "&lt;&lt;interface&gt;&gt;")
	})
}
