package mermaid

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// C4 diagram headers accepted by the server's C4 prompts.
var C4Types = []string{"C4Context", "C4Container", "C4Component", "C4Deployment"}

// minimum positional arguments per macro
var c4Macros = map[string]int{
	"Person": 2, "Person_Ext": 2,
	"System": 2, "System_Ext": 2, "SystemDb": 2, "SystemDb_Ext": 2, "SystemQueue": 2, "SystemQueue_Ext": 2,
	"Container": 2, "Container_Ext": 2, "ContainerDb": 2, "ContainerDb_Ext": 2, "ContainerQueue": 2, "ContainerQueue_Ext": 2,
	"Component": 2, "Component_Ext": 2, "ComponentDb": 2, "ComponentDb_Ext": 2, "ComponentQueue": 2, "ComponentQueue_Ext": 2,

	"Boundary": 2, "Enterprise_Boundary": 2, "System_Boundary": 2, "Container_Boundary": 2,
	"Deployment_Node": 2, "Node": 2, "Node_L": 2, "Node_R": 2,

	"Rel": 3, "BiRel": 3, "Rel_Back": 3, "RelIndex": 4,
	"Rel_U": 3, "Rel_Up": 3, "Rel_D": 3, "Rel_Down": 3,
	"Rel_L": 3, "Rel_Left": 3, "Rel_R": 3, "Rel_Right": 3,

	"UpdateElementStyle": 1, "UpdateRelStyle": 2, "UpdateBoundaryStyle": 1, "UpdateLayoutConfig": 0,
}

var c4Call = regexp.MustCompile(`^(\w+)\s*\((.*)\)\s*(\{)?$`)

// checkC4Statement accepts a title, a closing brace, or a single known macro call that
// may open a block.
func checkC4Statement(stmt string) error {
	word := firstWord(stmt)
	switch {
	case stmt == "}":
		return nil
	case word == "title", strings.HasPrefix(word, "accTitle"), strings.HasPrefix(word, "accDescr"):
		return nil
	}

	m := c4Call.FindStringSubmatch(stmt)
	if m == nil {
		if name, _, ok := strings.Cut(stmt, "("); ok {
			return fmt.Errorf("Expecting ')' to close '%s('", strings.TrimSpace(name))
		}
		return errors.New("Expecting a C4 element or relationship, e.g. Person(alias, \"label\")")
	}

	name, args := m[1], m[2]
	minArgs, ok := c4Macros[name]
	if !ok {
		return fmt.Errorf("Unknown C4 element '%s'", name)
	}
	if got := countArgs(args); got < minArgs {
		return fmt.Errorf("'%s' needs at least %d arguments, got %d", name, minArgs, got)
	}
	return nil
}

// countArgs counts the top-level comma separated arguments of a macro call.
func countArgs(args string) int {
	if strings.TrimSpace(args) == "" {
		return 0
	}
	count := 1
	depth := 0
	inQuote := false
	for _, r := range args {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ',' && depth == 0:
			count++
		}
	}
	return count
}

// IsC4Type reports whether name is one of C4Types.
func IsC4Type(name string) bool {
	return slices.Contains(C4Types, name)
}
