package entmap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/veldra/entmap/pack"
)

// WriteOptions configures the writer.
type WriteOptions struct {
	// Indent string per nesting level (default: tab)
	Indent string
}

// DefaultWriteOptions returns sensible defaults.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Indent: "\t"}
}

// Write converts a document to canonical entity map text. The header
// block is emitted only when it holds non-default values, and the
// output re-parses to a document structurally equal to the input.
func Write(doc *Document) string {
	return WriteWithOptions(doc, DefaultWriteOptions())
}

// WriteWithOptions converts a document with custom options.
func WriteWithOptions(doc *Document, opts WriteOptions) string {
	w := &writer{opts: opts}
	w.writeHeader(doc)
	for _, entity := range doc.Entities {
		w.writeEntity(entity)
	}
	return w.sb.String()
}

// WriteEntities converts a subset of entities to text, for partial
// export without a header.
func WriteEntities(entities []*Value) string {
	return WriteEntitiesWithOptions(entities, DefaultWriteOptions())
}

// WriteEntitiesWithOptions converts a subset of entities with custom
// options.
func WriteEntitiesWithOptions(entities []*Value, opts WriteOptions) string {
	w := &writer{opts: opts}
	for _, entity := range entities {
		w.writeEntity(entity)
	}
	return w.sb.String()
}

// WriteFile writes a document to disk, packing it into a compressed
// container when compressed is set.
func WriteFile(path string, doc *Document, compressed bool) error {
	data := []byte(Write(doc))
	if compressed {
		packed, err := pack.Compress(data)
		if err != nil {
			return fmt.Errorf("entmap: pack %s: %w", path, err)
		}
		data = packed
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("entmap: write %s: %w", path, err)
	}
	return nil
}

type writer struct {
	sb   strings.Builder
	opts WriteOptions
}

func (w *writer) writeHeader(doc *Document) {
	// The Version line is what routes a document head to the header
	// parser on re-parse, so it is forced whenever any other header
	// field is non-default.
	if doc.Version != -1 || doc.HierarchyVersion != -1 || len(doc.Properties) > 0 {
		w.sb.WriteString("Version ")
		w.sb.WriteString(strconv.Itoa(doc.Version))
		w.sb.WriteByte('\n')
	}
	if doc.HierarchyVersion != -1 {
		w.sb.WriteString("HierarchyVersion ")
		w.sb.WriteString(strconv.Itoa(doc.HierarchyVersion))
		w.sb.WriteByte('\n')
	}
	if len(doc.Properties) > 0 {
		w.sb.WriteString("properties{\n")
		for _, p := range doc.Properties {
			w.sb.WriteString(w.opts.Indent)
			w.sb.WriteByte('"')
			w.sb.WriteString(p.Key)
			w.sb.WriteString(`" = "`)
			w.sb.WriteString(p.Value)
			w.sb.WriteString("\"\n")
		}
		w.sb.WriteString("}\n")
	}
}

// writeEntity emits one entity block: the layers list first when
// non-empty, then the flat assignments in field order, then the
// entityDef block last.
func (w *writer) writeEntity(entity *Value) {
	w.sb.WriteString("entity{\n")

	if layers := entity.Get("layers"); layers != nil && len(layers.LayerNames()) > 0 {
		w.sb.WriteString(w.opts.Indent)
		w.sb.WriteString("layers{")
		for _, name := range layers.LayerNames() {
			w.sb.WriteString(` "`)
			w.sb.WriteString(name)
			w.sb.WriteByte('"')
		}
		w.sb.WriteString(" }\n")
	}

	var defField *Field
	for i := range entity.Fields() {
		f := &entity.Fields()[i]
		if f.Key == "layers" {
			continue
		}
		if strings.HasPrefix(f.Key, "entityDef ") {
			defField = f
			continue
		}
		w.writeAssignment(f.Key, f.Value, 1)
	}

	if defField != nil {
		name := strings.TrimPrefix(defField.Key, "entityDef ")
		w.sb.WriteString(w.opts.Indent)
		w.sb.WriteString("entityDef ")
		w.sb.WriteString(name)
		w.sb.WriteString("{\n")
		for _, f := range defField.Value.Fields() {
			w.writeAssignment(f.Key, f.Value, 2)
		}
		w.sb.WriteString(w.opts.Indent)
		w.sb.WriteString("}\n")
	}

	w.sb.WriteString("}\n")
}

// writeAssignment emits one "key = value;" line, recursing into object
// values with one extra indent level.
func (w *writer) writeAssignment(key string, value *Value, depth int) {
	w.writeIndent(depth)
	w.sb.WriteString(key)
	w.sb.WriteString(" = ")

	if value.Kind() == KindObject {
		w.sb.WriteString("{\n")
		for _, f := range value.Fields() {
			w.writeAssignment(f.Key, f.Value, depth+1)
		}
		w.writeIndent(depth)
		w.sb.WriteString("};\n")
		return
	}

	w.writeScalar(value)
	w.sb.WriteString(";\n")
}

func (w *writer) writeScalar(value *Value) {
	switch value.Kind() {
	case KindNull:
		w.sb.WriteString("NULL")
	case KindBool:
		if value.boolVal {
			w.sb.WriteString("true")
		} else {
			w.sb.WriteString("false")
		}
	case KindInt:
		w.sb.WriteString(strconv.FormatInt(value.intVal, 10))
	case KindFloat:
		w.writeFloat(value.floatVal)
	case KindStr:
		w.sb.WriteByte('"')
		w.sb.WriteString(value.strVal)
		w.sb.WriteByte('"')
	default:
		// Layers outside the layers key and bare objects never reach
		// here; emit null so output still re-parses.
		w.sb.WriteString("NULL")
	}
}

// writeFloat emits the shortest representation that round-trips. A
// decimal point or exponent is guaranteed so a constructed integral
// float still lexes as a number literal.
func (w *writer) writeFloat(f float64) {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	w.sb.WriteString(s)
}

func (w *writer) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		w.sb.WriteString(w.opts.Indent)
	}
}
