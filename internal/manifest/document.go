package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a parsed manifest kept as a YAML node tree.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string

	node *yaml.Node
}

// Parse decodes the first YAML document in data. The document root must
// be a mapping.
func Parse(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if err := validateRoot(&node); err != nil {
		return nil, err
	}

	return &Document{node: &node}, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path

	return doc, nil
}

// Root returns the top-level mapping node.
func (d *Document) Root() *yaml.Node {
	return resolve(d.node.Content[0])
}

// Get returns the node at path.
func (d *Document) Get(path Path) (*yaml.Node, error) {
	return Lookup(d.Root(), path)
}

// Set replaces the node at path with value.
func (d *Document) Set(path Path, value *yaml.Node) error {
	return Set(d.Root(), path, value)
}

// Decode decodes the node at path into out.
func (d *Document) Decode(path Path, out any) error {
	node, err := d.Get(path)
	if err != nil {
		return err
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Data decodes the whole document into plain Go values.
func (d *Document) Data() (any, error) {
	var out any
	if err := d.node.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

// Encode writes the document as YAML with two-space indentation.
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.node); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return enc.Close()
}

// Bytes returns the encoded document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cloneNode returns a deep copy of node with aliases expanded and anchors
// dropped, so the copy can be placed in another document. A node that
// contains an alias to itself cannot be expanded and yields ErrParse.
func cloneNode(node *yaml.Node) (*yaml.Node, error) {
	return cloneTree(node, map[*yaml.Node]bool{})
}

// cloneTree copies node; active holds the nodes being copied on the way
// down from the root of the copy.
func cloneTree(node *yaml.Node, active map[*yaml.Node]bool) (*yaml.Node, error) {
	if node == nil {
		return nil, nil
	}

	node = resolve(node)
	if active[node] {
		return nil, fmt.Errorf("%w: anchor %q value contains itself", ErrParse, node.Anchor)
	}
	active[node] = true
	defer delete(active, node)

	out := *node
	out.Anchor = ""
	if node.Content != nil {
		out.Content = make([]*yaml.Node, len(node.Content))
		for i, c := range node.Content {
			copied, err := cloneTree(c, active)
			if err != nil {
				return nil, err
			}
			out.Content[i] = copied
		}
	}
	return &out, nil
}
