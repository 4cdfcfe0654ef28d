package preflight

// Requirement describes an external tool and the minimum version accepted.
type Requirement struct {
	// Name is the display name, e.g. "Node.js".
	Name string `yaml:"name" json:"name"`

	// Required is the minimum version, e.g. ">=16.0.0".
	Required string `yaml:"required" json:"required"`

	// Command is looked up on PATH to decide whether the tool is installed.
	Command string `yaml:"command" json:"command"`

	// VersionCommand is the command line that prints the installed version.
	VersionCommand string `yaml:"version_command" json:"version_command"`
}

// DefaultRequirements returns the tools a development session relies on.
func DefaultRequirements() []Requirement {
	return []Requirement{
		{Name: "Node.js", Required: ">=16.0.0", Command: "node", VersionCommand: "node --version"},
		{Name: "npm", Required: ">=8.0.0", Command: "npm", VersionCommand: "npm --version"},
		{Name: "Git", Required: ">=2.0.0", Command: "git", VersionCommand: "git --version"},
		{Name: "yq", Required: ">=4.0.0", Command: "yq", VersionCommand: "yq --version"},
	}
}
