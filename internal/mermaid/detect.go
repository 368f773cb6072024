package mermaid

import (
	"regexp"
	"strings"
)

// Diagram kind identifiers as reported by Detect.
const (
	KindC4           = "c4"
	KindFlowchart    = "flowchart-v2"
	KindFlowchartElk = "flowchart-elk"
	KindSequence     = "sequence"
	KindClass        = "classDiagram"
	KindState        = "stateDiagram"
	KindER           = "er"
	KindGantt        = "gantt"
	KindPie          = "pie"
	KindJourney      = "journey"
	KindGitGraph     = "gitGraph"
	KindRequirement  = "requirement"
	KindMindmap      = "mindmap"
	KindTimeline     = "timeline"
	KindQuadrant     = "quadrantChart"
	KindSankey       = "sankey"
	KindXYChart      = "xychart"
	KindBlock        = "block"
	KindPacket       = "packet"
	KindArchitecture = "architecture"
	KindKanban       = "kanban"
	KindRadar        = "radar"
	KindInfo         = "info"
)

type detector struct {
	kind   string
	header *regexp.Regexp
}

// Order matters: more specific headers come before their prefixes.
var detectors = []detector{
	{KindC4, regexp.MustCompile(`^(C4Context|C4Container|C4Component|C4Dynamic|C4Deployment)\b`)},
	{KindFlowchartElk, regexp.MustCompile(`^flowchart-elk\b`)},
	{KindFlowchart, regexp.MustCompile(`^(flowchart|graph)\b`)},
	{KindSequence, regexp.MustCompile(`^sequenceDiagram\b`)},
	{KindClass, regexp.MustCompile(`^classDiagram(-v2)?\b`)},
	{KindState, regexp.MustCompile(`^stateDiagram(-v2)?\b`)},
	{KindER, regexp.MustCompile(`^erDiagram\b`)},
	{KindGantt, regexp.MustCompile(`^gantt\b`)},
	{KindPie, regexp.MustCompile(`^pie\b`)},
	{KindJourney, regexp.MustCompile(`^journey\b`)},
	{KindGitGraph, regexp.MustCompile(`^gitGraph\b`)},
	{KindRequirement, regexp.MustCompile(`^requirement(Diagram)?\b`)},
	{KindMindmap, regexp.MustCompile(`^mindmap\b`)},
	{KindTimeline, regexp.MustCompile(`^timeline\b`)},
	{KindQuadrant, regexp.MustCompile(`^quadrantChart\b`)},
	{KindSankey, regexp.MustCompile(`^sankey(-beta)?\b`)},
	{KindXYChart, regexp.MustCompile(`^xychart(-beta)?\b`)},
	{KindBlock, regexp.MustCompile(`^block(-beta)?\b`)},
	{KindPacket, regexp.MustCompile(`^packet(-beta)?\b`)},
	{KindArchitecture, regexp.MustCompile(`^architecture(-beta)?\b`)},
	{KindKanban, regexp.MustCompile(`^kanban\b`)},
	{KindRadar, regexp.MustCompile(`^radar(-beta)?\b`)},
	{KindInfo, regexp.MustCompile(`^info\b`)},
}

// Detect returns the kind of the diagram in text, or "" when the header is not recognised.
// Code fences, frontmatter, comments and directives are skipped.
func Detect(text string) string {
	_, body, _, err := Split(Clean(text))
	if err != nil {
		return ""
	}
	header, _ := headerLine(body)
	return detectHeader(header)
}

func detectHeader(header string) string {
	for _, d := range detectors {
		if d.header.MatchString(header) {
			return d.kind
		}
	}
	return ""
}

// headerLine returns the first statement line of body, trimmed, and its zero-based index.
func headerLine(body string) (string, int) {
	for i, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if isIgnorable(line) {
			continue
		}
		return line, i
	}
	return "", -1
}
