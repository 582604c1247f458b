package manifest

// Defaults for the Diego upgrade manifests.
const (
	// ConsulServersPath holds the consul agent LAN server list.
	ConsulServersPath = "properties.consul.agent.servers.lan"

	// NATSPath holds the NATS connection properties.
	NATSPath = "properties.nats"

	// DefaultJobName is the job removed from the CF manifest before Diego
	// takes over log traffic.
	DefaultJobName = "doppler_z1"

	// DefaultNetworkIndex is the network binding whose static IPs are cleared.
	DefaultNetworkIndex = 0
)

// DefaultMergePaths lists the property blocks copied from a CF manifest
// into a CF API manifest, in the order they are applied.
var DefaultMergePaths = []string{ConsulServersPath, NATSPath}

// Job is a typed view of one entry in a manifest's jobs sequence.
type Job struct {
	// Name identifies the job and is the lookup key for DisableJob.
	Name string `yaml:"name"`

	// Instances is the number of VMs deployed for the job.
	Instances int `yaml:"instances"`

	// Networks lists the job's network bindings in declaration order.
	Networks []Network `yaml:"networks,omitempty"`
}

// Network is a job's binding to a deployment network.
type Network struct {
	Name string `yaml:"name"`

	// StaticIPs are fixed addresses assigned on this network.
	StaticIPs []string `yaml:"static_ips,omitempty"`
}

// StaticIPs returns the static IPs of the job's first network binding.
func (j Job) StaticIPs() []string {
	if len(j.Networks) == 0 {
		return nil
	}
	return j.Networks[0].StaticIPs
}
