package entmap

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/veldra/entmap/pack"
)

// Property is one header key/value pair.
type Property struct {
	Key   string
	Value string
}

// Document represents a parsed map document: the optional header plus
// the entity sequence in source order.
type Document struct {
	Version          int
	HierarchyVersion int
	Properties       []Property
	Entities         []*Value
}

// NewDocument creates an empty document with default header values.
func NewDocument() *Document {
	return &Document{Version: -1, HierarchyVersion: -1}
}

// Keyed builds the def_name -> entity map for the document. Def names
// must be unique within a document; a collision is rejected with a
// *DuplicateDefNameError rather than silently overwritten.
func (d *Document) Keyed() (map[string]*Value, error) {
	keyed := make(map[string]*Value, len(d.Entities))
	for _, e := range d.Entities {
		name, err := DefName(e)
		if err != nil {
			return nil, err
		}
		if _, dup := keyed[name]; dup {
			return nil, &DuplicateDefNameError{DefName: name}
		}
		keyed[name] = e
	}
	return keyed, nil
}

// reEntityStart matches the boundary token that opens an entity block.
var reEntityStart = regexp.MustCompile(`\bentity\s*\{`)

// ParseDocument parses a full map document, fanning entity fragments
// out to one worker per CPU.
func ParseDocument(text string) (*Document, error) {
	return ParseDocumentParallel(text, runtime.GOMAXPROCS(0))
}

// ParseDocumentParallel parses a full map document with the given
// number of parse workers.
//
// The text is split on entity-block boundaries after stripping
// comments globally (so a boundary inside a comment does not split).
// A fragment before the first boundary that begins with "Version" is
// routed to ParseHeader; every entity fragment is parsed independently.
// Results are reassembled by fragment index, so the Entities order
// matches the document regardless of worker completion order. The first
// failing fragment aborts the whole parse with a *FragmentError.
func ParseDocumentParallel(text string, workers int) (*Document, error) {
	doc := NewDocument()
	text = stripComments(text)

	bounds := reEntityStart.FindAllStringIndex(text, -1)

	head := text
	if len(bounds) > 0 {
		head = text[:bounds[0][0]]
	}

	fragments := make([]string, 0, len(bounds))
	if trimmed := strings.TrimSpace(head); strings.HasPrefix(trimmed, "Version") {
		version, hierarchyVersion, props, err := ParseHeader(head)
		if err != nil {
			return nil, err
		}
		doc.Version = version
		doc.HierarchyVersion = hierarchyVersion
		doc.Properties = props
	} else if trimmed != "" {
		// Not header-shaped: route it to the entity parser like any
		// other fragment so the failure carries a fragment index.
		fragments = append(fragments, "entity{"+trimmed)
	}

	for i, b := range bounds {
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		fragments = append(fragments, "entity{"+text[b[1]:end])
	}

	entities, err := parseFragments(fragments, workers)
	if err != nil {
		return nil, err
	}
	doc.Entities = entities
	return doc, nil
}

// parseFragments fans fragment parsing out to a worker pool and
// collects results keyed by fragment index.
func parseFragments(fragments []string, workers int) ([]*Value, error) {
	if len(fragments) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(fragments) {
		workers = len(fragments)
	}

	entities := make([]*Value, len(fragments))
	errs := make([]error, len(fragments))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entities[i], errs[i] = ParseEntity(fragments[i])
			}
		}()
	}
	for i := range fragments {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &FragmentError{Index: i, Err: err}
		}
	}
	return entities, nil
}

// ParseFile reads and parses a map document from disk, transparently
// unpacking a compressed container when one is detected.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("entmap: read %s: %w", path, err)
	}
	if pack.IsCompressed(data) {
		data, err = pack.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("entmap: unpack %s: %w", path, err)
		}
	}
	return ParseDocument(string(data))
}

// stripComments removes // line comments and /* */ block comments,
// leaving quoted strings untouched. Block comments may span lines.
// Stripping happens before the document is split so a comment holding
// an entity boundary, a quote or a comment opener cannot confuse the
// split or the head routing.
func stripComments(text string) string {
	if !strings.Contains(text, "//") && !strings.Contains(text, "/*") {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	inString := false
	for i := 0; i < len(text); {
		ch := text[i]
		if inString {
			if ch == '"' {
				inString = false
			}
			sb.WriteByte(ch)
			i++
			continue
		}
		if ch == '"' {
			inString = true
			sb.WriteByte(ch)
			i++
			continue
		}
		if ch == '/' && i+1 < len(text) && text[i+1] == '/' {
			for i < len(text) && text[i] != '\n' {
				i++
			}
			continue
		}
		if ch == '/' && i+1 < len(text) && text[i+1] == '*' {
			i += 2
			for i < len(text) {
				if text[i] == '*' && i+1 < len(text) && text[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
			continue
		}
		sb.WriteByte(ch)
		i++
	}
	return sb.String()
}
