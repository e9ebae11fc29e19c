// Package mesh holds the minimal triangle-mesh model the simulated document
// exports, plus writers for the mesh interchange formats.
package mesh

import "fmt"

// Vector3 represents a 3D vector
type Vector3 struct {
	X, Y, Z float32
}

// Triangle represents a triangle in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// Mesh represents a named triangle mesh
type Mesh struct {
	Name      string
	Triangles []Triangle
}

// Box builds an axis-aligned box mesh with one corner at the origin, two
// triangles per face.
func Box(name string, sx, sy, sz float64) *Mesh {
	x := float32(sx)
	y := float32(sy)
	z := float32(sz)

	// corners: bit 0 = x, bit 1 = y, bit 2 = z
	c := [8]Vector3{
		{0, 0, 0}, {x, 0, 0}, {0, y, 0}, {x, y, 0},
		{0, 0, z}, {x, 0, z}, {0, y, z}, {x, y, z},
	}

	faces := []struct {
		n          Vector3
		a, b, c, d int // quad corners, counter-clockwise seen from outside
	}{
		{Vector3{0, 0, -1}, 0, 2, 3, 1}, // bottom
		{Vector3{0, 0, 1}, 4, 5, 7, 6},  // top
		{Vector3{0, -1, 0}, 0, 1, 5, 4}, // front
		{Vector3{0, 1, 0}, 2, 6, 7, 3},  // back
		{Vector3{-1, 0, 0}, 0, 4, 6, 2}, // left
		{Vector3{1, 0, 0}, 1, 3, 7, 5},  // right
	}

	m := &Mesh{Name: name, Triangles: make([]Triangle, 0, 12)}
	for _, f := range faces {
		m.Triangles = append(m.Triangles,
			Triangle{Normal: f.n, V1: c[f.a], V2: c[f.b], V3: c[f.c]},
			Triangle{Normal: f.n, V1: c[f.a], V2: c[f.c], V3: c[f.d]},
		)
	}
	return m
}

// Merge concatenates several meshes into one.
func Merge(name string, meshes ...*Mesh) *Mesh {
	out := &Mesh{Name: name}
	for _, m := range meshes {
		out.Triangles = append(out.Triangles, m.Triangles...)
	}
	return out
}

// dedupeVertices builds the unique vertex list and per-triangle indices used
// by the indexed formats (OBJ, 3MF).
func dedupeVertices(m *Mesh) ([]Vector3, [][3]int) {
	vertexMap := make(map[Vector3]int)
	var vertices []Vector3

	index := func(v Vector3) int {
		if idx, ok := vertexMap[v]; ok {
			return idx
		}
		idx := len(vertices)
		vertexMap[v] = idx
		vertices = append(vertices, v)
		return idx
	}

	triangles := make([][3]int, 0, len(m.Triangles))
	for _, tri := range m.Triangles {
		triangles = append(triangles, [3]int{index(tri.V1), index(tri.V2), index(tri.V3)})
	}
	return vertices, triangles
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
