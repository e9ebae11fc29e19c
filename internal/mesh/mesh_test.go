package mesh

import (
	"archive/zip"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBox(t *testing.T) {
	m := Box("cube", 2, 3, 4)

	if m.Name != "cube" {
		t.Errorf("name = %q", m.Name)
	}
	if len(m.Triangles) != 12 {
		t.Fatalf("got %d triangles, want 12", len(m.Triangles))
	}

	vertices, triangles := dedupeVertices(m)
	if len(vertices) != 8 {
		t.Errorf("got %d unique vertices, want 8", len(vertices))
	}
	if len(triangles) != 12 {
		t.Errorf("got %d indexed triangles, want 12", len(triangles))
	}

	// all vertices inside the box extents
	for _, v := range vertices {
		if v.X < 0 || v.X > 2 || v.Y < 0 || v.Y > 3 || v.Z < 0 || v.Z > 4 {
			t.Errorf("vertex %v outside box", v)
		}
	}
}

func TestWriteSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")
	if err := WriteSTL(Box("cube", 1, 1, 1), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// 80-byte header + uint32 count + 12 triangles * 50 bytes
	if len(data) != 80+4+12*50 {
		t.Errorf("file size = %d", len(data))
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	if count != 12 {
		t.Errorf("triangle count = %d", count)
	}
}

func TestWriteOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := WriteOBJ(Box("cube", 1, 1, 1), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "o cube\n") {
		t.Error("missing object header")
	}
	if got := strings.Count(content, "\nv "); got != 8 {
		t.Errorf("expected 8 vertex lines, got %d", got)
	}
	if got := strings.Count(content, "\nf "); got != 12 {
		t.Errorf("expected 12 face lines, got %d", got)
	}
}

func TestWrite3MF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.3mf")
	if err := Write3MF(Box("cube", 1, 1, 1), path); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	want := map[string]bool{
		"3D/3dmodel.model":    false,
		"[Content_Types].xml": false,
		"_rels/.rels":         false,
	}
	for _, f := range zr.File {
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing zip entry %s", name)
		}
	}
}

func TestMerge(t *testing.T) {
	m := Merge("both", Box("a", 1, 1, 1), Box("b", 2, 2, 2))
	if len(m.Triangles) != 24 {
		t.Errorf("got %d triangles, want 24", len(m.Triangles))
	}
}
