package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Inputs carries the raw trigger and environment signals supplied by the CI
// agent for a single run. The plan resolver reconciles these into one
// consistent build plan; nothing else reads them.
type Inputs struct {
	NodeLabel                string
	Workspace                string
	CleanRequested           bool
	PublishBinariesRequested bool
	TriggerCause             string // empty when the run carries no trigger metadata
	RunPrimaryTests          bool
	RunUpstreamTests         bool
}

// Profile is the node-class policy: which tool names to probe, where the
// per-label fallbacks live, which labels carry documentation capability and
// where artifacts are published. All fields have working defaults so a run
// without a profile file behaves like the historical setup.
type Profile struct {
	ToolName        string            `yaml:"tool_name"`
	PluginName      string            `yaml:"plugin_name"`
	ToolCandidates  []string          `yaml:"tool_candidates"`
	FallbackPaths   map[string]string `yaml:"fallback_paths"`
	DefaultToolPath string            `yaml:"default_tool_path"`

	WindowsMarker   string `yaml:"windows_marker"`
	DocLabelMarker  string `yaml:"doc_label_marker"`
	SourcePublisher string `yaml:"source_publisher_label"`

	ParallelJobs int `yaml:"parallel_jobs"`

	DocsRemote string `yaml:"docs_remote"`

	Kerberos KerberosConfig `yaml:"kerberos"`

	PruneAfterDays int `yaml:"prune_after_days"`
}

// KerberosConfig identifies the ticket used to reach the documentation host.
type KerberosConfig struct {
	Principal string `yaml:"principal"`
	Keytab    string `yaml:"keytab"`
}

// DefaultProfile returns the built-in node-class policy.
func DefaultProfile() Profile {
	return Profile{
		ToolName:        "cling",
		PluginName:      "cling",
		ToolCandidates:  []string{"cmake3", "cmake"},
		FallbackPaths:   map[string]string{"cc7": "/cvmfs/sft.cern.ch/lcg/contrib/CMake/3.7.0/Linux-x86_64/bin/cmake"},
		DefaultToolPath: "/usr/local/bin/cmake",
		WindowsMarker:   "win",
		DocLabelMarker:  "ubuntu22",
		SourcePublisher: "ubuntu22",
		ParallelJobs:    8,
		DocsRemote:      "lxplus:/eos/project/r/root-eos/www/cling/",
		Kerberos: KerberosConfig{
			Principal: "sftnight@CERN.CH",
			Keytab:    "/ec/conf/sftnight.keytab",
		},
		PruneAfterDays: 3,
	}
}

// LoadProfile reads a YAML profile file and overlays it on the defaults.
// A missing path is not an error: the defaults are the profile.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profile, nil
		}
		return profile, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &profile); err != nil {
		return profile, fmt.Errorf("unmarshal profile: %w", err)
	}
	profile.applyDefaults()
	return profile, nil
}

// applyDefaults fills fields an explicit profile left empty.
func (p *Profile) applyDefaults() {
	def := DefaultProfile()
	if p.ToolName == "" {
		p.ToolName = def.ToolName
	}
	if p.PluginName == "" {
		p.PluginName = def.PluginName
	}
	if len(p.ToolCandidates) == 0 {
		p.ToolCandidates = def.ToolCandidates
	}
	if p.DefaultToolPath == "" {
		p.DefaultToolPath = def.DefaultToolPath
	}
	if p.WindowsMarker == "" {
		p.WindowsMarker = def.WindowsMarker
	}
	if p.DocLabelMarker == "" {
		p.DocLabelMarker = def.DocLabelMarker
	}
	if p.SourcePublisher == "" {
		p.SourcePublisher = def.SourcePublisher
	}
	if p.ParallelJobs == 0 {
		p.ParallelJobs = def.ParallelJobs
	}
	if p.DocsRemote == "" {
		p.DocsRemote = def.DocsRemote
	}
	if p.PruneAfterDays == 0 {
		p.PruneAfterDays = def.PruneAfterDays
	}
}

// LoadEnvFiles loads .env/.env.local into the process environment without
// overriding variables the CI agent already exported. Returns the filename
// that was loaded, or empty when none exists.
func LoadEnvFiles() string {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}
