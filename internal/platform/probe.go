package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/julianstephens/medwatch/internal/config"
)

var (
	goos           = runtime.GOOS
	executableFunc = os.Executable
	tempDirFunc    = os.TempDir
)

// Probe answers the two questions strategy selection depends on.
type Probe struct {
	capability string
	installDir string
}

func NewProbe(cfg config.WakeConfig, platform config.PlatformConfig) *Probe {
	return &Probe{
		capability: cfg.Capability,
		installDir: platform.InstallDir,
	}
}

// CapabilityPresent reports whether the host can run recurring background wakes.
func (p *Probe) CapabilityPresent() bool {
	switch p.capability {
	case config.CapabilityOn:
		return true
	case config.CapabilityOff:
		return false
	}

	// No long-lived background process on these targets
	switch goos {
	case "js", "wasip1", "ios", "android":
		return false
	}
	return true
}

// Installed reports whether the binary runs from a stable location rather than a scratch build.
func (p *Probe) Installed() bool {
	exe, err := executableFunc()
	if err != nil {
		return false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	if p.installDir != "" {
		return within(p.installDir, exe)
	}
	return !within(tempDirFunc(), exe)
}

func within(dir, path string) bool {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
