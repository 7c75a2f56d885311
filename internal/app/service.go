package app

import (
	"nonstop-pack/internal/adapters"
	"nonstop-pack/internal/core"
	"nonstop-pack/internal/ports"
)

type Service struct {
	VersionSource ports.VersionSourcePort
	VCS           ports.VCSPort
	Strategy      ports.ProvenanceStrategy
	ArchiveWriter ports.ArchiveWriterPort
	ArchiveReader ports.ArchiveReaderPort
	Matcher       ports.FileMatcherPort
	Store         ports.ArtifactStorePort
	InfoFile      ports.InfoWriterPort
	Projects      ports.ProjectFilePort
	Platform      ports.PlatformPort
	Provenance    core.ProvenanceConfig
}

func NewService() Service {
	matcher := adapters.NewGlobMatcherAdapter()
	git := adapters.NewGitCLIAdapter()
	archive := adapters.NewTarGzAdapter()
	return Service{
		VersionSource: adapters.NewVersionFileAdapter(matcher),
		VCS:           git,
		Strategy:      core.NewHistoryStrategy(git),
		ArchiveWriter: archive,
		ArchiveReader: archive,
		Matcher:       matcher,
		Store:         adapters.NewArtifactStoreAdapter(matcher),
		InfoFile:      adapters.NewInfoFileAdapter(),
		Projects:      adapters.NewProjectFileAdapter(),
		Platform:      adapters.NewHostPlatformAdapter(),
		Provenance:    core.ProvenanceConfig{QueryTimeout: core.DefaultQueryTimeout},
	}
}

func (s Service) provenance() core.ProvenanceEngine {
	return core.NewProvenanceEngine(s.VCS, s.Strategy, s.Provenance)
}
