package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/paramexport/internal/document"
	"github.com/philipparndt/paramexport/internal/host"
)

const testDoc = `
name: Assembly
parameters:
  - name: width
    expression: "10 mm"
  - name: label
    expression: "'Rev A'"
  - name: area
    expression: "width * width"
bodies:
  - name: Plate
    size: [width, "4", "2"]
components:
  - name: Bracket
    size: ["5", "5", "2"]
`

const testSession = `
document: doc.yaml
objects: [Plate, Bracket]
parameters:
  - name: width
    values: "10; 20"
format: stl
output: ./out
`

func writeSession(t *testing.T, session string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.yaml"), []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "session.yaml")
	if err := os.WriteFile(path, []byte(session), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadResolvesPaths(t *testing.T) {
	path := writeSession(t, testSession)

	s, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := filepath.Dir(path)
	if s.Document != filepath.Join(dir, "doc.yaml") {
		t.Errorf("document path not absolutized: %s", s.Document)
	}
	if s.Output != filepath.Join(dir, "out") {
		t.Errorf("output path not absolutized: %s", s.Output)
	}
}

func TestValidateRejectsBadSessions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Session)
		wantErr string
	}{
		{"no objects", func(s *Session) { s.Objects = nil }, "at least one body or component"},
		{"no parameters", func(s *Session) { s.Parameters = nil }, "at least one parameter"},
		{"unnamed parameter", func(s *Session) { s.Parameters[0].Name = "" }, "name is required"},
		{"duplicate parameter", func(s *Session) {
			s.Parameters = append(s.Parameters, s.Parameters[0])
		}, "listed twice"},
		{"missing values", func(s *Session) { s.Parameters[0].Values = " " }, "values are required"},
		{"missing format", func(s *Session) { s.Format = "" }, "format is required"},
		{"unknown format", func(s *Session) { s.Format = "dxf" }, "unknown export format"},
		{"missing output", func(s *Session) { s.Output = "" }, "output folder is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{
				Objects:    []string{"Plate"},
				Parameters: []ParameterSpec{{Name: "width", Values: "1; 2"}},
				Format:     "stl",
				Output:     "./out",
			}
			tt.mutate(s)

			err := NewLoader().Validate(s)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`  "/tmp/out"  `, "/tmp/out"},
		{"'/tmp/out'", "/tmp/out"},
		{"/tmp/a/../b", "/tmp/b"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	design, err := document.Parse([]byte(testDoc))
	if err != nil {
		t.Fatal(err)
	}

	s := &Session{
		Objects: []string{"Plate", "Bracket"},
		Parameters: []ParameterSpec{
			{Name: "width", Values: "10; 20"},
			{Name: "label", Values: "'a'; 'b;c'"},
		},
		Format: "STL",
		Output: "/tmp/out",
	}

	sel, err := s.Resolve(design)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sel.Targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(sel.Targets))
	}
	if sel.Targets[0].Kind != host.EntityBody || sel.Targets[1].Kind != host.EntityComponent {
		t.Errorf("target kinds wrong: %+v", sel.Targets)
	}

	if len(sel.Parameters) != 2 {
		t.Fatalf("got %d parameters, want 2", len(sel.Parameters))
	}
	if sel.Parameters[0].Kind != host.ParamNumeric || sel.Parameters[0].Unit != "mm" {
		t.Errorf("width resolved wrong: %+v", sel.Parameters[0])
	}
	if sel.Parameters[1].Kind != host.ParamText || len(sel.Parameters[1].Values) != 2 {
		t.Errorf("label resolved wrong: %+v", sel.Parameters[1])
	}

	// template auto-generated from the selection
	if sel.Template != "{name}_{width}_{label}.stl" {
		t.Errorf("template = %q", sel.Template)
	}
}

func TestResolveRejectsFormulaParameter(t *testing.T) {
	design, err := document.Parse([]byte(testDoc))
	if err != nil {
		t.Fatal(err)
	}

	s := &Session{
		Objects:    []string{"Plate"},
		Parameters: []ParameterSpec{{Name: "area", Values: "1; 2"}},
		Format:     "stl",
		Output:     "/tmp/out",
	}
	if _, err := s.Resolve(design); err == nil || !strings.Contains(err.Error(), "formula") {
		t.Errorf("expected formula rejection, got %v", err)
	}
}

func TestResolveRejectsUnknownObject(t *testing.T) {
	design, err := document.Parse([]byte(testDoc))
	if err != nil {
		t.Fatal(err)
	}

	s := &Session{
		Objects:    []string{"Missing"},
		Parameters: []ParameterSpec{{Name: "width", Values: "1"}},
		Format:     "stl",
		Output:     "/tmp/out",
	}
	if _, err := s.Resolve(design); err == nil || !strings.Contains(err.Error(), "no body or component") {
		t.Errorf("expected unknown object error, got %v", err)
	}
}

func TestResolveRejectsBadValueList(t *testing.T) {
	design, err := document.Parse([]byte(testDoc))
	if err != nil {
		t.Fatal(err)
	}

	s := &Session{
		Objects:    []string{"Plate"},
		Parameters: []ParameterSpec{{Name: "width", Values: "a; b"}},
		Format:     "stl",
		Output:     "/tmp/out",
	}
	if _, err := s.Resolve(design); err == nil {
		t.Error("expected parse error for bad value list")
	}
}
