package scanner

import "strings"

const tabSize = 8

// indentError is the first block-structure problem in python source
type indentError struct {
	line int
	msg  string
}

// lineState tracks tokenizer state that spans physical lines
type lineState struct {
	depth        int    // open brackets
	triple       string // open triple-quote delimiter, if any
	continuation bool   // previous line ended with a backslash
}

// firstIndentError walks logical lines the way the python tokenizer does and
// reports the first missing block, unexpected indent or inconsistent dedent.
// Blank lines, comments and lines inside brackets, triple-quoted strings and
// backslash continuations carry no indentation meaning.
func firstIndentError(code string) (indentError, bool) {
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")

	stack := []int{0}
	expectBlock := false
	blockLine := 0
	var st lineState

	for i, raw := range lines {
		lineNo := i + 1
		startsLogical := st.depth == 0 && st.triple == "" && !st.continuation

		if startsLogical {
			col, rest := indentOf(raw)
			if rest == "" || rest[0] == '#' {
				continue
			}

			top := stack[len(stack)-1]
			switch {
			case expectBlock:
				if col <= top {
					return indentError{lineNo, "expected an indented block"}, true
				}
				stack = append(stack, col)
				expectBlock = false
			case col > top:
				return indentError{lineNo, "unexpected indent"}, true
			case col < top:
				for len(stack) > 1 && stack[len(stack)-1] > col {
					stack = stack[:len(stack)-1]
				}
				if stack[len(stack)-1] != col {
					return indentError{lineNo, "unindent does not match any outer indentation level"}, true
				}
			}
		}

		last := st.scan(raw)
		if st.depth == 0 && st.triple == "" && !st.continuation {
			expectBlock = last == ':'
			if expectBlock {
				blockLine = lineNo
			}
		}
	}

	if expectBlock {
		return indentError{blockLine + 1, "expected an indented block"}, true
	}
	return indentError{}, false
}

// indentOf returns the indentation column of line and the remaining text
func indentOf(line string) (int, string) {
	col := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			col++
		case '\t':
			col = (col/tabSize + 1) * tabSize
		case '\f':
			col = 0
		default:
			return col, strings.TrimRight(line[i:], " \t\r")
		}
	}
	return col, ""
}

// scan advances the state over one physical line and returns the last
// significant byte outside strings and comments.
func (s *lineState) scan(line string) byte {
	s.continuation = false
	var last byte
	quote := byte(0)

	for i := 0; i < len(line); i++ {
		c := line[i]

		if s.triple != "" {
			if c == '\\' {
				i++
				continue
			}
			if strings.HasPrefix(line[i:], s.triple) {
				i += len(s.triple) - 1
				s.triple = ""
				last = c
			}
			continue
		}

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
				last = c
			}
			continue
		}

		switch c {
		case '#':
			return last
		case '"', '\'':
			delim := strings.Repeat(string(c), 3)
			if strings.HasPrefix(line[i:], delim) {
				s.triple = delim
				i += 2
			} else {
				quote = c
			}
			last = c
		case '(', '[', '{':
			s.depth++
			last = c
		case ')', ']', '}':
			if s.depth > 0 {
				s.depth--
			}
			last = c
		case '\\':
			if strings.TrimRight(line[i+1:], " \t\r") == "" {
				s.continuation = true
				return last
			}
			last = c
		case ' ', '\t', '\r', '\f':
		default:
			last = c
		}
	}
	return last
}
