package scanner

import (
	"reflect"
	"strings"
	"testing"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

func TestSyntax(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		language  string
		wantCount int
	}{
		{"valid python", "def add(a, b):\n    return a + b\n", "python", 0},
		{"invalid python", "def broken(:\n    pass\n", "python", 1},
		{"alias py", "def broken(:\n    pass\n", "py", 1},
		{"alias mixed case", "def broken(:\n    pass\n", "Python3", 1},
		{"unsupported language", "def broken(:\n", "ruby", 0},
		{"empty code", "", "python", 0},
		{"print statement", "print 'hello'\n", "python", 1},
		{"exec statement", "exec 'x=1'\n", "python", 1},
		{"missing indented block", "if True:\nprint(1)\n", "python", 1},
		{"unexpected indent", "def f():\n    x = 1\n        y = 2\n", "python", 1},
		{"print call", "print('hello')\n", "python", 0},
		{"exec call", "exec('x=1')\n", "python", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Syntax(tt.code, tt.language)
			if len(issues) != tt.wantCount {
				t.Fatalf("Syntax() returned %d issues; want %d (%v)", len(issues), tt.wantCount, issues)
			}
			for _, iss := range issues {
				if iss.Type != domain.IssueSyntax {
					t.Errorf("Type = %q; want syntax", iss.Type)
				}
				if iss.Severity != domain.SeverityHigh {
					t.Errorf("Severity = %q; want high", iss.Severity)
				}
				if iss.Confidence != 1.0 {
					t.Errorf("Confidence = %v; want 1.0", iss.Confidence)
				}
				if iss.LineNumber < 0 {
					t.Errorf("LineNumber = %d; want >= 0", iss.LineNumber)
				}
			}
		})
	}
}

func TestSyntax_ReportsFirstErrorOnly(t *testing.T) {
	code := "x = = 1\ny = = 2\nz = = 3\n"
	issues := Syntax(code, "python")
	if len(issues) != 1 {
		t.Fatalf("Syntax() returned %d issues; want 1", len(issues))
	}
	if issues[0].LineNumber != 1 {
		t.Errorf("LineNumber = %d; want 1", issues[0].LineNumber)
	}
}

func TestSyntax_ErrorLine(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantLine int
		wantMsg  string
	}{
		{"print statement", "x = 1\nprint 'hello'\n", 2, "print statement"},
		{"missing block", "if True:\nprint(1)\n", 2, "expected an indented block"},
		{"unexpected indent", "def f():\n    x = 1\n        y = 2\n", 3, "unexpected indent"},
		{"bad dedent", "if x:\n    if y:\n        pass\n  z = 1\n", 4, "unindent does not match"},
		{"earliest wins", "  a = 1\nprint 'b'\n", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Syntax(tt.code, "python")
			if len(issues) != 1 {
				t.Fatalf("Syntax() returned %d issues; want 1 (%v)", len(issues), issues)
			}
			if issues[0].LineNumber != tt.wantLine {
				t.Errorf("LineNumber = %d; want %d", issues[0].LineNumber, tt.wantLine)
			}
			if !strings.Contains(issues[0].Description, tt.wantMsg) {
				t.Errorf("Description = %q; want it to mention %q", issues[0].Description, tt.wantMsg)
			}
		})
	}
}

func TestFirstIndentError_IgnoresNonLogicalLines(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"blank and comment lines", "def f():\n\n    # note\n  # odd comment\n    return 1\n"},
		{"bracket continuation", "x = [\n        1,\n  2,\n]\ny = 3\n"},
		{"backslash continuation", "total = 1 + \\\n        2\n"},
		{"triple quoted string", "def f():\n    \"\"\"Doc.\n\nmore text\n    \"\"\"\n    return 1\n"},
		{"colon in comment", "x = 1  # note:\ny = 2\n"},
		{"colon in string", "s = 'a:'\nt = 2\n"},
		{"one line compound", "if x: y = 1\nz = 2\n"},
		{"dict literal", "d = {\n    'a': 1,\n}\n"},
		{"tabs", "if x:\n\ty = 1\n        z = 2\n"},
		{"nested blocks", "class A:\n    def f(self):\n        if x:\n            pass\n        else:\n            pass\n    def g(self):\n        pass\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ie, ok := firstIndentError(tt.code); ok {
				t.Errorf("firstIndentError() = line %d %q; want none", ie.line, ie.msg)
			}
		})
	}
}

func TestPerformance(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		language  string
		wantCount int
	}{
		{"python infinite loop", "while True:\n    pass", "python", 1},
		{"python loop with break", "while True:\n    break", "python", 0},
		{"python bounded loop", "for i in range(10):\n    pass", "python", 0},
		{"javascript infinite loop", "while (true) { tick(); }", "javascript", 1},
		{"c for ever", "for (;;) { work(); }", "c", 1},
		{"java with break", "while(true) { if (done) break; }", "java", 0},
		{"unknown language", "while True:\n    pass", "cobol", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Performance(tt.code, tt.language)
			if len(issues) != tt.wantCount {
				t.Fatalf("Performance() returned %d issues; want %d", len(issues), tt.wantCount)
			}
			for _, iss := range issues {
				if iss.Type != domain.IssuePerformance || iss.Severity != domain.SeverityHigh {
					t.Errorf("issue = %+v; want performance/high", iss)
				}
				if iss.Confidence != 0.8 {
					t.Errorf("Confidence = %v; want 0.8", iss.Confidence)
				}
				if iss.LineNumber != 0 {
					t.Errorf("LineNumber = %d; want 0", iss.LineNumber)
				}
			}
		})
	}
}

func TestSecurity(t *testing.T) {
	t.Run("eval", func(t *testing.T) {
		issues := Security("x = 1\nresult = eval(x)\n")
		if len(issues) != 1 {
			t.Fatalf("Security() returned %d issues; want 1", len(issues))
		}
		if issues[0].Confidence != 0.9 || issues[0].Severity != domain.SeverityHigh {
			t.Errorf("issue = %+v; want high with confidence 0.9", issues[0])
		}
		if issues[0].LineNumber != 2 {
			t.Errorf("LineNumber = %d; want 2", issues[0].LineNumber)
		}
	})

	t.Run("sql with input", func(t *testing.T) {
		issues := Security("name = input('name')\ncursor.execute('SELECT * FROM users WHERE name=' + name)  # SQL")
		if len(issues) != 1 {
			t.Fatalf("Security() returned %d issues; want 1", len(issues))
		}
		if issues[0].Confidence != 0.7 {
			t.Errorf("Confidence = %v; want 0.7", issues[0].Confidence)
		}
	})

	t.Run("sql keyword is case-insensitive", func(t *testing.T) {
		if n := len(Security("query = Sql(INPUT('x'))")); n != 1 {
			t.Errorf("Security() returned %d issues; want 1", n)
		}
	})

	t.Run("both rules in order", func(t *testing.T) {
		issues := Security("sql = input('q')\neval(sql)")
		if len(issues) != 2 {
			t.Fatalf("Security() returned %d issues; want 2", len(issues))
		}
		if issues[0].Confidence != 0.7 || issues[1].Confidence != 0.9 {
			t.Errorf("issues = %+v; want sql rule before eval rule", issues)
		}
	})

	t.Run("clean code", func(t *testing.T) {
		if n := len(Security("print('hello')")); n != 0 {
			t.Errorf("Security() returned %d issues; want 0", n)
		}
	})
}

func TestScan_Order(t *testing.T) {
	code := "def broken(:\nwhile True:\n    eval(x)\n"
	issues := Scan(code, "python")
	if len(issues) != 3 {
		t.Fatalf("Scan() returned %d issues; want 3 (%v)", len(issues), issues)
	}
	want := []domain.IssueType{domain.IssueSyntax, domain.IssuePerformance, domain.IssueSecurity}
	for i, iss := range issues {
		if iss.Type != want[i] {
			t.Errorf("issues[%d].Type = %q; want %q", i, iss.Type, want[i])
		}
	}
}

func TestScan_Idempotent(t *testing.T) {
	code := "import sqlite3\nq = input()\nwhile True:\n    eval(q)\n"
	first := Scan(code, "python")
	second := Scan(code, "python")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Scan() is not idempotent: %v vs %v", first, second)
	}
}
