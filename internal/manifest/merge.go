package manifest

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// MergeProperties copies the value at each path of src into dst, replacing
// whatever dst held there. Every path is read from src before dst is
// modified, so a missing source field leaves dst untouched.
//
// In dst the parent of each path must already exist; only the leaf is
// created or overwritten.
func MergeProperties(src, dst *Document, paths []Path) error {
	values := make([]*yaml.Node, len(paths))
	for i, path := range paths {
		node, err := src.Get(path)
		if err != nil {
			return fmt.Errorf("read source %s: %w", path, err)
		}
		values[i], err = cloneNode(node)
		if err != nil {
			return fmt.Errorf("read source %s: %w", path, err)
		}

		if _, err := dst.Get(path[:len(path)-1]); err != nil {
			return fmt.Errorf("write destination %s: %w", path, err)
		}
	}

	for i, path := range paths {
		if err := dst.Set(path, values[i]); err != nil {
			return fmt.Errorf("write destination %s: %w", path, err)
		}
		log.WithFields(log.Fields{
			"path":   path.String(),
			"source": src.Path,
		}).Debug("merged property")
	}

	return nil
}
