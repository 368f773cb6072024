// Package prompts loads the documentation prompts offered by the server.
//
// Each prompt is an embedded markdown template. Its YAML frontmatter names the prompt and
// declares the arguments it accepts (required, default, numeric or enumerated); the body
// is a text/template expanded with the argument values plus {{.Server}} and {{.Readme}}.
package prompts
