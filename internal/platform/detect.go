package platform

import (
	"context"
	"runtime"
	"strings"
)

// Platform holds the detected OS, distro and package manager.
type Platform struct {
	OS     string // linux, macos, wsl, windows
	Distro string // debian, fedora, arch, suse, unknown
	PkgMgr string // apt, dnf, pacman, zypper, brew, unknown
	Arch   string // amd64, arm64, armv7
}

// Detect probes the runtime environment and returns platform info.
func Detect(ctx context.Context, runner CommandRunner) Platform {
	p := Platform{
		OS:     "unknown",
		Distro: "unknown",
		PkgMgr: "unknown",
		Arch:   normalizeArch(runtime.GOARCH),
	}

	switch runtime.GOOS {
	case "linux":
		p.OS = "linux"
		// Check for WSL
		out, err := runner.RunWithOutput(ctx, "cat", "/proc/version")
		if err == nil && containsCI(string(out), "microsoft") {
			p.OS = "wsl"
		}
		p.detectLinuxDistro(runner)
	case "darwin":
		p.OS = "macos"
		p.PkgMgr = "brew"
	case "windows":
		p.OS = "windows"
	}
	return p
}

func (p *Platform) detectLinuxDistro(runner CommandRunner) {
	switch {
	case runner.CommandExists("apt-get"):
		p.Distro = "debian"
		p.PkgMgr = "apt"
	case runner.CommandExists("dnf"):
		p.Distro = "fedora"
		p.PkgMgr = "dnf"
	case runner.CommandExists("pacman"):
		p.Distro = "arch"
		p.PkgMgr = "pacman"
	case runner.CommandExists("zypper"):
		p.Distro = "suse"
		p.PkgMgr = "zypper"
	}
}

func normalizeArch(goarch string) string {
	switch goarch {
	case "arm":
		return "armv7"
	default:
		return goarch
	}
}

func containsCI(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// IsLinux returns true if the platform is linux or WSL.
func (p *Platform) IsLinux() bool {
	return p.OS == "linux" || p.OS == "wsl"
}

// JavaInstallHint returns the command that installs a headless Java 21
// runtime with the platform's package manager, or "" when unknown.
func (p *Platform) JavaInstallHint() string {
	switch p.PkgMgr {
	case "apt":
		return "sudo apt-get install -y openjdk-21-jre-headless"
	case "dnf":
		return "sudo dnf install -y java-21-openjdk-headless"
	case "pacman":
		return "sudo pacman -S --noconfirm jre21-openjdk-headless"
	case "zypper":
		return "sudo zypper install -y java-21-openjdk-headless"
	case "brew":
		return "brew install openjdk@21"
	default:
		return ""
	}
}
