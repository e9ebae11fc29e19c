package mesh

import (
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// WriteSTL writes the mesh as binary STL: 80-byte header, uint32 triangle
// count, then 50 bytes per triangle.
func WriteSTL(m *Mesh, outputFile string) error {
	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer outFile.Close()

	w := bufio.NewWriter(outFile)

	header := make([]byte, 80)
	copy(header, []byte("paramexport "+m.Name))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("error writing triangle count: %w", err)
	}

	for _, tri := range m.Triangles {
		for _, v := range []Vector3{tri.Normal, tri.V1, tri.V2, tri.V3} {
			if err := binary.Write(w, binary.LittleEndian, []float32{v.X, v.Y, v.Z}); err != nil {
				return fmt.Errorf("error writing triangle: %w", err)
			}
		}
		// attribute byte count
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("error writing triangle: %w", err)
		}
	}

	return w.Flush()
}

// WriteOBJ writes the mesh as a Wavefront OBJ file with a shared vertex list.
// OBJ vertex indices are 1-based.
func WriteOBJ(m *Mesh, outputFile string) error {
	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer outFile.Close()

	w := bufio.NewWriter(outFile)
	vertices, triangles := dedupeVertices(m)

	fmt.Fprintf(w, "o %s\n", m.Name)
	for _, v := range vertices {
		fmt.Fprintf(w, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	for _, tri := range triangles {
		fmt.Fprintf(w, "f %d %d %d\n", tri[0]+1, tri[1]+1, tri[2]+1)
	}

	return w.Flush()
}

// Write3MF writes the mesh as a minimal 3MF package: the model XML plus the
// content-types and relationship parts every consumer expects.
func Write3MF(m *Mesh, outputFile string) error {
	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer outFile.Close()

	zipWriter := zip.NewWriter(outFile)
	defer zipWriter.Close()

	verticesXML, trianglesXML := buildMeshXML(m)

	modelXML := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<model unit="millimeter" xml:lang="en-US" xmlns="http://schemas.microsoft.com/3dmanufacturing/core/2015/02">
	<resources>
		<object id="1" type="model">
			<mesh>
				<vertices>
%s				</vertices>
				<triangles>
%s				</triangles>
			</mesh>
		</object>
	</resources>
	<build>
		<item objectid="1" transform="1 0 0 0 1 0 0 0 1 0 0 0"/>
	</build>
</model>`, verticesXML, trianglesXML)

	modelWriter, err := zipWriter.Create("3D/3dmodel.model")
	if err != nil {
		return fmt.Errorf("error creating model entry: %w", err)
	}
	if _, err := modelWriter.Write([]byte(modelXML)); err != nil {
		return fmt.Errorf("error writing model XML: %w", err)
	}

	contentTypesXML := `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
	<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
	<Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>`

	contentWriter, err := zipWriter.Create("[Content_Types].xml")
	if err != nil {
		return fmt.Errorf("error creating content types: %w", err)
	}
	if _, err := contentWriter.Write([]byte(contentTypesXML)); err != nil {
		return fmt.Errorf("error writing content types: %w", err)
	}

	relsXML := `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
	<Relationship Id="rel0" Target="/3D/3dmodel.model" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"/>
</Relationships>`

	relsWriter, err := zipWriter.Create("_rels/.rels")
	if err != nil {
		return fmt.Errorf("error creating rels: %w", err)
	}
	if _, err := relsWriter.Write([]byte(relsXML)); err != nil {
		return fmt.Errorf("error writing rels: %w", err)
	}

	return nil
}

// buildMeshXML builds the vertices and triangles XML for the 3MF model part.
func buildMeshXML(m *Mesh) (string, string) {
	vertices, triangles := dedupeVertices(m)

	var verticesBuf bytes.Buffer
	var trianglesBuf bytes.Buffer

	for _, v := range vertices {
		verticesBuf.WriteString(fmt.Sprintf("\t\t\t\t\t<vertex x=\"%.6f\" y=\"%.6f\" z=\"%.6f\"/>\n", v.X, v.Y, v.Z))
	}
	for _, tri := range triangles {
		trianglesBuf.WriteString(fmt.Sprintf("\t\t\t\t\t<triangle v1=\"%d\" v2=\"%d\" v3=\"%d\"/>\n", tri[0], tri[1], tri[2]))
	}

	return verticesBuf.String(), trianglesBuf.String()
}
