package manifest

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var jobsPath = Path{{Key: "jobs"}}

// Jobs decodes the jobs sequence into typed entries, preserving order.
func (d *Document) Jobs() ([]Job, error) {
	var jobs []Job
	if err := d.Decode(jobsPath, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindJob returns the mapping node of the first job whose name equals name.
func (d *Document) FindJob(name string) (*yaml.Node, error) {
	jobs, err := d.Get(jobsPath)
	if err != nil {
		return nil, err
	}
	if err := expectKind(jobs, yaml.SequenceNode, jobsPath.String()); err != nil {
		return nil, err
	}

	for _, entry := range jobs.Content {
		job := resolve(entry)
		if job.Kind != yaml.MappingNode {
			continue
		}
		if value, ok := lookupKey(job, "name"); ok && resolve(value).Value == name {
			return job, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
}

// DisableJob sets the named job's instances to 0 and empties the static_ips
// of its network binding at networkIndex. The binding is chosen by position
// only. The document is left unchanged when any step fails.
func DisableJob(doc *Document, name string, networkIndex int) error {
	job, err := doc.FindJob(name)
	if err != nil {
		return err
	}

	networkPath := Path{{Key: "networks"}, {Index: networkIndex, IsIndex: true}}
	network, err := Lookup(job, networkPath)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}
	if err := expectKind(network, yaml.MappingNode, networkPath.String()); err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	if err := Set(job, Path{{Key: "instances"}}, intNode(0)); err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}
	if err := Set(network, Path{{Key: "static_ips"}}, emptySequenceNode()); err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	log.WithFields(log.Fields{
		"job":     name,
		"network": networkIndex,
	}).Debug("disabled job")

	return nil
}
