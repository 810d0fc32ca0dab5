package plugins

import (
	"context"
	"fmt"
	"strings"
)

// HangarAPI is the default PaperMC Hangar API base.
const HangarAPI = "https://hangar.papermc.io/api/v1"

// HangarURL resolves the download URL of a Hangar project's latest Paper
// release.
func (m *Manager) HangarURL(ctx context.Context, project string) (string, error) {
	body, err := m.Downloader.Get(ctx, fmt.Sprintf("%s/projects/%s/latestrelease", m.HangarAPI, project))
	if err != nil {
		return "", fmt.Errorf("fetching Hangar version for %s: %w", project, err)
	}

	version := strings.TrimSpace(string(body))
	if version == "" {
		return "", fmt.Errorf("empty version for %s", project)
	}
	return fmt.Sprintf("%s/projects/%s/versions/%s/PAPER/download", m.HangarAPI, project, version), nil
}

// DownloadHangar installs the latest Paper release of a Hangar project as
// <project>.jar.
func (m *Manager) DownloadHangar(ctx context.Context, project string) (string, error) {
	dest, err := m.join(project + EnabledExt)
	if err != nil {
		return "", err
	}
	url, err := m.HangarURL(ctx, project)
	if err != nil {
		return "", err
	}

	m.Output.Info("Downloading %s from Hangar...", project)
	if err := m.Downloader.Fetch(ctx, url, dest); err != nil {
		return "", err
	}
	m.Output.Success("Plugin downloaded: %s", project+EnabledExt)
	return dest, nil
}
