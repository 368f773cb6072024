package mermaid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrEmptyDiagram = errors.New("empty diagram")

// UnknownDiagramError is returned when the header line names no known diagram kind.
type UnknownDiagramError struct {
	Text string
}

func (e *UnknownDiagramError) Error() string {
	return fmt.Sprintf("No diagram type detected matching given configuration for text: %s", e.Text)
}

// SyntaxError locates a structural problem. Line is 1-based and counts from the first line
// of the cleaned diagram, frontmatter included.
type SyntaxError struct {
	Line   int
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Parse error on line %d:\n%s\n%s", e.Line, e.Text, e.Reason)
}

// Validate checks the structure of a diagram. It returns nil for a well-formed diagram,
// ErrEmptyDiagram when nothing but whitespace, fences or frontmatter is present, and
// otherwise an *UnknownDiagramError or *SyntaxError.
func Validate(text string) error {
	cleaned := Clean(text)
	if cleaned == "" {
		return ErrEmptyDiagram
	}

	_, body, offset, err := Split(cleaned)
	if err != nil {
		return &SyntaxError{Line: 1, Text: "---", Reason: err.Error()}
	}

	header, headerIdx := headerLine(body)
	if header == "" {
		return ErrEmptyDiagram
	}
	kind := detectHeader(header)
	if kind == "" {
		return &UnknownDiagramError{Text: header}
	}

	v := newChecker(kind)
	lines := strings.Split(body, "\n")
	lastLine := offset + headerIdx + 1

	// A flowchart header may carry statements after the direction: "graph TD; A-->B;"
	if isFlowchart(kind) {
		if _, rest, ok := strings.Cut(header, ";"); ok {
			if err := v.line(rest); err != nil {
				return &SyntaxError{Line: lastLine, Text: header, Reason: err.Error()}
			}
		}
	}

	for i := headerIdx + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if isIgnorable(line) {
			continue
		}
		lastLine = offset + i + 1
		if err := v.line(line); err != nil {
			return &SyntaxError{Line: lastLine, Text: line, Reason: err.Error()}
		}
	}

	if err := v.finish(); err != nil {
		return &SyntaxError{Line: lastLine, Text: strings.TrimSpace(lines[lastLine-offset-1]), Reason: err.Error()}
	}
	return nil
}

func isFlowchart(kind string) bool {
	return kind == KindFlowchart || kind == KindFlowchartElk
}

// checker holds the cross-line state of one validation run.
type checker struct {
	kind       string
	brackets   bool
	braceDepth int
	blocks     []string
	statement  func(string) error
}

func newChecker(kind string) *checker {
	c := &checker{kind: kind}
	switch kind {
	case KindC4:
		c.brackets = true
		c.statement = checkC4Statement
	case KindFlowchart, KindFlowchartElk:
		c.brackets = true
		c.statement = c.flowchartStatement
	case KindSequence:
		c.brackets = true
		c.statement = c.sequenceStatement
	case KindClass, KindState, KindRequirement:
		c.brackets = true
	}
	return c
}

func (c *checker) line(line string) error {
	statements := []string{line}
	if isFlowchart(c.kind) {
		statements = splitOutsideQuotes(line, ';')
	}

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := checkQuotes(stmt); err != nil {
			return err
		}
		if c.brackets {
			if err := c.checkBrackets(bracketScope(c.kind, stmt)); err != nil {
				return err
			}
		}
		if c.statement != nil {
			if err := c.statement(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *checker) finish() error {
	if len(c.blocks) > 0 {
		return fmt.Errorf("Expecting 'end' to close '%s' before end of diagram", c.blocks[len(c.blocks)-1])
	}
	if c.braceDepth > 0 {
		return fmt.Errorf("Expecting '}' before end of diagram, %d block(s) left open", c.braceDepth)
	}
	return nil
}

func checkQuotes(stmt string) error {
	if strings.Count(stmt, `"`)%2 != 0 {
		return errors.New(`Unterminated string: missing closing '"'`)
	}
	return nil
}

var asymmetricShape = regexp.MustCompile(`(^|[\s;&>|])(\w+)>([^\]]*)\]`)

// bracketScope trims the part of a statement whose brackets are free text: message,
// transition and member labels after ':'. Flowchart asymmetric shapes "A>text]" are
// rewritten so they balance.
func bracketScope(kind, stmt string) string {
	switch kind {
	case KindSequence:
		// async arrows "-)" and "--)" are not brackets
		before, _, _ := strings.Cut(stmt, ":")
		return strings.ReplaceAll(before, "-)", "-")
	case KindState, KindClass:
		if before, _, ok := strings.Cut(stmt, ":"); ok {
			return before
		}
	case KindFlowchart, KindFlowchartElk:
		return asymmetricShape.ReplaceAllString(stmt, "$1$2[$3]")
	}
	return stmt
}

var closers = map[rune]rune{')': '(', ']': '[', '}': '{'}

// checkBrackets requires ( and [ to close on the same statement. Braces may open a block
// that is closed on a later line.
func (c *checker) checkBrackets(stmt string) error {
	var stack []rune
	inQuote := false
	for _, r := range stmt {
		if r == '"' {
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			open := closers[r]
			if len(stack) > 0 && stack[len(stack)-1] == open {
				stack = stack[:len(stack)-1]
				continue
			}
			if r == '}' && len(stack) == 0 && c.braceDepth > 0 {
				c.braceDepth--
				continue
			}
			return fmt.Errorf("Unexpected '%c'", r)
		}
	}

	for _, open := range stack {
		if open != '{' {
			return fmt.Errorf("Unclosed '%c'", open)
		}
		c.braceDepth++
	}
	return nil
}

var (
	flowchartKeywords = []string{"subgraph", "end", "direction", "classDef", "class", "style", "linkStyle", "click", "accTitle", "accDescr"}
	malformedLink     = regexp.MustCompile(`(--+|==+|-\.+-?)\s+>`)
)

func (c *checker) flowchartStatement(stmt string) error {
	word := firstWord(stmt)
	switch word {
	case "subgraph":
		c.blocks = append(c.blocks, word)
		return nil
	case "end":
		return c.closeBlock()
	}
	for _, kw := range flowchartKeywords {
		if word == kw {
			return nil
		}
	}
	if loc := malformedLink.FindStringIndex(stmt); loc != nil {
		return fmt.Errorf("Malformed link '%s'", stmt[loc[0]:loc[1]])
	}
	return nil
}

var (
	sequenceBlocks   = []string{"loop", "alt", "opt", "par", "rect", "critical", "break", "box"}
	sequenceKeywords = []string{
		"participant", "actor", "autonumber", "activate", "deactivate", "title", "create",
		"destroy", "link", "links", "properties", "details", "else", "and", "option",
		"accTitle", "accDescr",
	}
	sequenceMessage = regexp.MustCompile(`^[^:]+?\s*(<<-->>|<<->>|-->>|->>|-->|->|--x|-x|--\)|-\))\s*[+-]?[^:]+:`)
	sequenceNote    = regexp.MustCompile(`(?i)^note\s+(left of|right of|over)\s+[^:]+:`)
)

func (c *checker) sequenceStatement(stmt string) error {
	word := firstWord(stmt)
	for _, b := range sequenceBlocks {
		if word == b {
			c.blocks = append(c.blocks, word)
			return nil
		}
	}
	if word == "end" {
		return c.closeBlock()
	}
	for _, kw := range sequenceKeywords {
		if strings.TrimRight(word, ":") == kw {
			return nil
		}
	}
	if sequenceNote.MatchString(stmt) || sequenceMessage.MatchString(stmt) {
		return nil
	}
	return errors.New("Expecting a message (e.g. 'A->>B: text'), note or keyword")
}

func (c *checker) closeBlock() error {
	if len(c.blocks) == 0 {
		return errors.New("Unexpected 'end' with no open block")
	}
	c.blocks = c.blocks[:len(c.blocks)-1]
	return nil
}

func splitOutsideQuotes(line string, sep rune) []string {
	var parts []string
	start := 0
	inQuote := false
	for i, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == sep && !inQuote:
			parts = append(parts, line[start:i])
			start = i + 1
		}
	}
	return append(parts, line[start:])
}

func firstWord(stmt string) string {
	if i := strings.IndexAny(stmt, " \t"); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
