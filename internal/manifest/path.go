package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"gopkg.in/yaml.v3"
)

// Segment is one step of a Path: a mapping key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// String renders the segment the way it appears in a path expression.
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	if strings.ContainsAny(s.Key, ".[]'\" ") {
		return "['" + strings.ReplaceAll(s.Key, "'", "\\'") + "']"
	}
	return s.Key
}

// Path addresses a node inside a manifest document. Indexes count from
// the start of a sequence and must not be negative.
type Path []Segment

// ParsePath parses a JSONPath-style expression made of child keys and
// sequence indexes. Wildcards, filters, slices and recursive descent are
// rejected since every path must address exactly one node.
func ParsePath(expr string) (Path, error) {
	parsed, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", expr, err)
	}

	var path Path
	for _, frag := range parsed {
		switch f := frag.(type) {
		case jp.Root, jp.At, jp.Bracket:
			continue
		case jp.Child:
			path = append(path, Segment{Key: string(f)})
		case jp.Nth:
			if f < 0 {
				return nil, fmt.Errorf("parse path %q: negative index %d", expr, int(f))
			}
			path = append(path, Segment{Index: int(f), IsIndex: true})
		default:
			return nil, fmt.Errorf("parse path %q: unsupported segment type %T", expr, frag)
		}
	}

	if len(path) == 0 {
		return nil, fmt.Errorf("parse path %q: path is empty", expr)
	}

	return path, nil
}

// MustParsePath is like ParsePath but panics on error.
// Use it only for package-level constants.
func MustParsePath(expr string) Path {
	path, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return path
}

// ParsePaths parses each expression in turn, stopping at the first error.
func ParsePaths(exprs []string) ([]Path, error) {
	paths := make([]Path, 0, len(exprs))
	for _, expr := range exprs {
		path, err := ParsePath(expr)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// String renders the path in dotted form, or "$" for the empty path.
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}

	var sb strings.Builder
	for i, seg := range p {
		s := seg.String()
		if i > 0 && !strings.HasPrefix(s, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// Lookup returns the node at path below root. Aliases are followed.
func Lookup(root *yaml.Node, path Path) (*yaml.Node, error) {
	node := resolve(root)
	for i, seg := range path {
		next, err := child(node, seg, path[:i])
		if err != nil {
			return nil, err
		}
		node = next
	}
	return node, nil
}

// Set replaces the node at path below root with value. The leaf is created
// when its parent mapping lacks the key; every other segment must exist.
func Set(root *yaml.Node, path Path, value *yaml.Node) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: cannot replace the document root", ErrTypeMismatch)
	}

	parentPath := path[:len(path)-1]
	parent, err := Lookup(root, parentPath)
	if err != nil {
		return err
	}

	last := path[len(path)-1]
	if last.IsIndex {
		if err := expectKind(parent, yaml.SequenceNode, parentPath.String()); err != nil {
			return err
		}
		idx, err := sequenceIndex(parent, last.Index, path)
		if err != nil {
			return err
		}
		parent.Content[idx] = value
		return nil
	}

	if err := expectKind(parent, yaml.MappingNode, parentPath.String()); err != nil {
		return err
	}
	if i := mappingIndex(parent, last.Key); i >= 0 {
		parent.Content[i+1] = value
		return nil
	}
	parent.Content = append(parent.Content, stringNode(last.Key), value)
	return nil
}

// child steps from node through seg. parent is the path leading to node and
// is used only for error messages.
func child(node *yaml.Node, seg Segment, parent Path) (*yaml.Node, error) {
	at := append(append(Path{}, parent...), seg)

	if seg.IsIndex {
		if err := expectKind(node, yaml.SequenceNode, parent.String()); err != nil {
			return nil, err
		}
		idx, err := sequenceIndex(node, seg.Index, at)
		if err != nil {
			return nil, err
		}
		return resolve(node.Content[idx]), nil
	}

	if err := expectKind(node, yaml.MappingNode, parent.String()); err != nil {
		return nil, err
	}
	value, ok := lookupKey(node, seg.Key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, at)
	}
	return resolve(value), nil
}

// sequenceIndex checks index against the length of seq.
func sequenceIndex(seq *yaml.Node, index int, at Path) (int, error) {
	if index < 0 || index >= len(seq.Content) {
		return 0, fmt.Errorf("%w: %s (sequence has %d element(s))", ErrIndexOutOfRange, at, len(seq.Content))
	}
	return index, nil
}

// lookupKey returns the value of key in mapping. When the mapping has no
// entry of its own it falls back to the mappings pulled in by merge keys
// (<<), first source first.
func lookupKey(mapping *yaml.Node, key string) (*yaml.Node, bool) {
	return lookupKeySeen(mapping, key, map[*yaml.Node]bool{})
}

func lookupKeySeen(mapping *yaml.Node, key string, seen map[*yaml.Node]bool) (*yaml.Node, bool) {
	if seen[mapping] {
		return nil, false
	}
	seen[mapping] = true

	if i := mappingIndex(mapping, key); i >= 0 {
		return mapping.Content[i+1], true
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if !isMergeKey(mapping.Content[i]) {
			continue
		}
		for _, src := range mergeSources(mapping.Content[i+1]) {
			if value, ok := lookupKeySeen(src, key, seen); ok {
				return value, true
			}
		}
	}

	return nil, false
}

// isMergeKey reports whether node is a "<<" merge key.
func isMergeKey(node *yaml.Node) bool {
	node = resolve(node)
	if node.Kind != yaml.ScalarNode || node.Value != "<<" {
		return false
	}
	return node.Tag == "" || node.Tag == "!" || node.Tag == "!!merge"
}

// mergeSources returns the mappings a merge key value refers to: a single
// mapping or a sequence of them.
func mergeSources(value *yaml.Node) []*yaml.Node {
	value = resolve(value)
	switch value.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{value}
	case yaml.SequenceNode:
		var sources []*yaml.Node
		for _, item := range value.Content {
			if m := resolve(item); m.Kind == yaml.MappingNode {
				sources = append(sources, m)
			}
		}
		return sources
	}
	return nil
}

// mappingIndex returns the position of key's key node in mapping.Content,
// or -1 when the key is absent.
func mappingIndex(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if k := resolve(mapping.Content[i]); k.Value == key && !isMergeKey(k) {
			return i
		}
	}
	return -1
}

// resolve follows alias nodes to their anchors.
func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func intNode(value int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)}
}

func emptySequenceNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
}
