// Package mermaid recognises, checks and previews Mermaid diagram markup.
//
// Input may arrive wrapped in a ```mermaid code fence, carry a YAML frontmatter block and
// contain %% comments or %%{init}%% directives. Clean removes the fences; Split separates
// the frontmatter from the body.
//
// Detect reports the diagram kind from the header line using the same identifiers the
// Mermaid renderer uses ("flowchart-v2", "sequence", "c4", ...). Validate performs a
// structural check rather than a full grammar parse: a known header, balanced brackets and
// quotes, closed blocks, and per-diagram statement rules for the kinds the server
// generates most (C4, flowchart, sequence).
//
// Previewer writes a self-contained HTML page that renders a diagram through the Mermaid
// CDN script, opens it in a browser and removes it again after a delay.
package mermaid
