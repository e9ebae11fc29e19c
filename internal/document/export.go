package document

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/philipparndt/paramexport/internal/host"
	"github.com/philipparndt/paramexport/internal/mesh"
)

// ExportEntity writes the target's box mesh to path in the given mesh
// format. Whole-document formats must go through ExportDocument.
func (d *Document) ExportEntity(target host.Target, format host.Format, path string) error {
	if format.WholeDocument() {
		return errors.Newf("format %s exports the whole document, not a single entity", format)
	}

	var m *mesh.Mesh
	switch target.Kind {
	case host.EntityBody:
		b := d.BodyByName(target.Name)
		if b == nil {
			return errors.Newf("body %s not found", target.Name)
		}
		m = mesh.Box(b.name, b.size[0], b.size[1], b.size[2])
	case host.EntityComponent:
		o := d.OccurrenceByName(target.Name)
		if o == nil {
			return errors.Newf("component %s not found", target.Name)
		}
		m = mesh.Box(o.name, o.size[0], o.size[1], o.size[2])
	default:
		return errors.Newf("unsupported entity kind %d", target.Kind)
	}

	return writeMesh(m, format, path)
}

// ExportDocument writes everything currently visible. STEP gets a part file
// naming the visible entities; mesh formats get the merged geometry.
func (d *Document) ExportDocument(format host.Format, path string) error {
	var names []string
	var meshes []*mesh.Mesh
	for _, b := range d.bodies {
		if b.visible {
			names = append(names, b.name)
			meshes = append(meshes, mesh.Box(b.name, b.size[0], b.size[1], b.size[2]))
		}
	}
	for _, o := range d.occs {
		if o.shown {
			names = append(names, o.name)
			meshes = append(meshes, mesh.Box(o.name, o.size[0], o.size[1], o.size[2]))
		}
	}
	if len(names) == 0 {
		return errors.New("nothing visible to export")
	}

	if format == host.FormatSTEP {
		return writeSTEP(path, d.name, names)
	}
	return writeMesh(mesh.Merge(d.name, meshes...), format, path)
}

func writeMesh(m *mesh.Mesh, format host.Format, path string) error {
	switch format {
	case host.FormatSTL:
		return mesh.WriteSTL(m, path)
	case host.FormatOBJ:
		return mesh.WriteOBJ(m, path)
	case host.Format3MF:
		return mesh.Write3MF(m, path)
	}
	return errors.Newf("unsupported export format %s", format)
}

// writeSTEP emits a minimal ISO-10303-21 part file with one product per
// visible entity. Enough structure for downstream tooling to identify what
// was exported; this is a harness, not a BRep kernel.
func writeSTEP(path, docName string, entities []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "error creating output file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "ISO-10303-21;")
	fmt.Fprintln(w, "HEADER;")
	fmt.Fprintf(w, "FILE_DESCRIPTION(('%s'),'2;1');\n", docName)
	fmt.Fprintf(w, "FILE_NAME('%s','%s',('paramexport'),(''),'','','');\n",
		path, time.Now().UTC().Format("2006-01-02T15:04:05"))
	fmt.Fprintln(w, "FILE_SCHEMA(('AUTOMOTIVE_DESIGN { 1 0 10303 214 1 1 1 1 }'));")
	fmt.Fprintln(w, "ENDSEC;")
	fmt.Fprintln(w, "DATA;")
	id := 1
	for _, name := range entities {
		fmt.Fprintf(w, "#%d=PRODUCT('%s','%s','',(#%d));\n", id, name, name, id+1)
		fmt.Fprintf(w, "#%d=PRODUCT_CONTEXT('',#%d,'mechanical');\n", id+1, id+2)
		fmt.Fprintf(w, "#%d=APPLICATION_CONTEXT('automotive design');\n", id+2)
		id += 3
	}
	fmt.Fprintln(w, "ENDSEC;")
	fmt.Fprintln(w, "END-ISO-10303-21;")
	return errors.Wrap(w.Flush(), "error writing STEP data")
}
