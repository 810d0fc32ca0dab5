package server

import (
	"context"

	"github.com/ISOnRM/minecraft-server/internal/download"
	"github.com/ISOnRM/minecraft-server/internal/ui"
)

// Installer fetches server cores into a server directory.
type Installer struct {
	Downloader *download.Client
	// PaperAPI is the PaperMC API base; tests point it at a local server.
	PaperAPI string
	Output   *ui.UI
}

// NewInstaller returns an Installer using the public Paper API.
func NewInstaller(d *download.Client, output *ui.UI) *Installer {
	return &Installer{Downloader: d, PaperAPI: PaperAPI, Output: output}
}

// FetchByURL downloads rawURL into dir under the URL's final path segment,
// replacing any file of the same name.
func (i *Installer) FetchByURL(ctx context.Context, dir Dir, rawURL string) (Core, error) {
	name, err := download.FileName(rawURL)
	if err != nil {
		return Core{}, err
	}
	core, err := BindCore(dir, name)
	if err != nil {
		return Core{}, err
	}

	i.Output.Info("Downloading from: %s", rawURL)
	if err := i.Downloader.Fetch(ctx, rawURL, core.Path()); err != nil {
		return Core{}, err
	}
	i.Output.Success("Core downloaded: %s", core.Name())
	return core, nil
}

// FetchPaperBuild downloads a Paper build. Either version or build may be
// Latest, in which case it is resolved through the Paper API first.
func (i *Installer) FetchPaperBuild(ctx context.Context, dir Dir, version, build string) (Core, error) {
	i.Output.Info("Fetching Paper %s build %s...", version, build)
	url, err := i.paperDownloadURL(ctx, version, build)
	if err != nil {
		return Core{}, err
	}
	return i.FetchByURL(ctx, dir, url)
}
