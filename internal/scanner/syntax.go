package scanner

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// Syntax parses python-family code and reports the first syntax error.
// Other languages produce no syntax issues.
func Syntax(code, language string) []domain.CodeIssue {
	if familyOf(language) != familyPython {
		return nil
	}

	line, msg, ok := firstPythonError([]byte(code))
	if !ok {
		return nil
	}

	suggestion := "Check the syntax and fix the error"
	if line > 0 {
		suggestion = fmt.Sprintf("Check the syntax around line %d and fix the error", line)
	}

	return []domain.CodeIssue{{
		LineNumber:  line,
		Type:        domain.IssueSyntax,
		Description: "Syntax error: " + msg,
		Suggestion:  suggestion,
		Severity:    domain.SeverityHigh,
		Confidence:  1.0,
	}}
}

// firstPythonError returns the earliest syntax problem in document order.
// Three sources are merged: block structure problems the grammar recovers
// from silently, ERROR and MISSING nodes from tree-sitter, and python 2 only
// statements the grammar still accepts. On the same line the earlier source
// wins. A parser failure is reported at line 0.
func firstPythonError(content []byte) (line int, msg string, found bool) {
	// Parsers are not safe for concurrent use, so each call gets its own.
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return 0, "unable to parse source: " + err.Error(), true
	}
	defer tree.Close()

	consider := func(l int, m string) {
		if !found || l < line {
			line, msg, found = l, m, true
		}
	}

	if ie, ok := firstIndentError(string(content)); ok {
		consider(ie.line, ie.msg)
	}

	root := tree.RootNode()
	if root.HasError() {
		if node := findError(root); node == nil {
			consider(0, "invalid syntax")
		} else if node.IsMissing() {
			consider(int(node.StartPoint().Row)+1, fmt.Sprintf("missing %q", node.Type()))
		} else {
			consider(int(node.StartPoint().Row)+1, "invalid syntax")
		}
	}

	if node := findLegacyStatement(root); node != nil {
		keyword := "print"
		if node.Type() == "exec_statement" {
			keyword = "exec"
		}
		consider(int(node.StartPoint().Row)+1,
			fmt.Sprintf("%s statement is python 2 syntax, call %s(...) instead", keyword, keyword))
	}

	return line, msg, found
}

// findError walks n depth-first and returns the first erroneous node
func findError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if found := findError(child); found != nil {
			return found
		}
	}
	return nil
}

// findLegacyStatement returns the first print or exec statement node
func findLegacyStatement(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "print_statement", "exec_statement":
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if found := findLegacyStatement(child); found != nil {
			return found
		}
	}
	return nil
}
