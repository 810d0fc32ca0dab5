package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ISOnRM/minecraft-server/internal/errors"
)

// PaperAPI is the default PaperMC downloads API base.
const PaperAPI = "https://api.papermc.io/v2"

// Latest selects the newest Paper version or build.
const Latest = "latest"

type paperVersionsResponse struct {
	Versions []string `json:"versions"`
}

type paperBuildsResponse struct {
	Builds []struct {
		Build     int `json:"build"`
		Downloads struct {
			Application struct {
				Name string `json:"name"`
			} `json:"application"`
		} `json:"downloads"`
	} `json:"builds"`
}

// PaperBuildURL returns the download URL of a specific Paper build.
func PaperBuildURL(api, version, build string) string {
	return fmt.Sprintf("%s/projects/paper/versions/%s/builds/%s/downloads/paper-%s-%s.jar",
		api, version, build, version, build)
}

// paperDownloadURL resolves "latest" for version and/or build through the
// API, then builds the download URL.
func (i *Installer) paperDownloadURL(ctx context.Context, version, build string) (string, error) {
	if version == Latest {
		var err error
		version, err = i.paperLatestVersion(ctx)
		if err != nil {
			return "", err
		}
	}
	if build != Latest {
		return PaperBuildURL(i.PaperAPI, version, build), nil
	}

	url := fmt.Sprintf("%s/projects/paper/versions/%s/builds", i.PaperAPI, version)
	body, err := i.Downloader.Get(ctx, url)
	if err != nil {
		return "", err
	}

	var builds paperBuildsResponse
	if err := json.Unmarshal(body, &builds); err != nil {
		return "", errors.Wrap(errors.ErrDownloadFailed, url, fmt.Errorf("parsing Paper builds: %w", err))
	}
	if len(builds.Builds) == 0 {
		return "", errors.Newf(errors.ErrCoreNotFound, url, "no builds found for Paper %s", version)
	}

	latest := builds.Builds[len(builds.Builds)-1]
	filename := latest.Downloads.Application.Name
	if filename == "" {
		return PaperBuildURL(i.PaperAPI, version, strconv.Itoa(latest.Build)), nil
	}
	return fmt.Sprintf("%s/projects/paper/versions/%s/builds/%d/downloads/%s",
		i.PaperAPI, version, latest.Build, filename), nil
}

func (i *Installer) paperLatestVersion(ctx context.Context) (string, error) {
	url := i.PaperAPI + "/projects/paper"
	body, err := i.Downloader.Get(ctx, url)
	if err != nil {
		return "", err
	}

	var resp paperVersionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", errors.Wrap(errors.ErrDownloadFailed, url, fmt.Errorf("parsing Paper versions: %w", err))
	}
	if len(resp.Versions) == 0 {
		return "", errors.Newf(errors.ErrCoreNotFound, url, "no Paper versions found")
	}
	return resp.Versions[len(resp.Versions)-1], nil
}
