package manifest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Errors returned while reading or editing a manifest.
var (
	// ErrParse indicates the input is not a usable YAML document.
	ErrParse = errors.New("parse manifest")

	// ErrMissingField indicates a path segment is absent from the document.
	ErrMissingField = errors.New("missing field")

	// ErrJobNotFound indicates no entry in jobs carries the requested name.
	ErrJobNotFound = errors.New("job not found")

	// ErrIndexOutOfRange indicates a sequence has no element at the requested index.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTypeMismatch indicates a node is not the kind the operation expects.
	ErrTypeMismatch = errors.New("unexpected node kind")
)

// kindName returns a readable name for a node kind.
func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty"
	}
}

// validateRoot checks that a decoded node is a document holding a mapping.
func validateRoot(node *yaml.Node) error {
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return fmt.Errorf("%w: empty document", ErrParse)
	}

	root := resolve(node.Content[0])
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: document root is a %s, expected mapping", ErrParse, kindName(root.Kind))
	}

	return nil
}

// expectKind returns ErrTypeMismatch when node is not of the wanted kind.
func expectKind(node *yaml.Node, want yaml.Kind, path string) error {
	if node.Kind != want {
		return fmt.Errorf("%w: %s is a %s, expected %s", ErrTypeMismatch, path, kindName(node.Kind), kindName(want))
	}
	return nil
}
