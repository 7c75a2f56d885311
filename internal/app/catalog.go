package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nonstop-pack/internal/core"
	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

func requireRoot(root string) error {
	if strings.TrimSpace(root) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("artifact root is required")
	}
	return nil
}

// Scan rebuilds the catalog of root from disk.
func (s Service) Scan(ctx context.Context, root string) (*core.Catalog, error) {
	if err := requireRoot(root); err != nil {
		return nil, err
	}
	records, err := s.Store.Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	return core.NewCatalog(root, records), nil
}

func (s Service) Find(ctx context.Context, req FindRequest) (FindResult, error) {
	catalog, err := s.Scan(ctx, req.Root)
	if err != nil {
		return FindResult{}, err
	}
	records := catalog.Find(req.Filter)
	log.Ctx(ctx).Debug().
		Int("catalog", catalog.Len()).
		Int("matches", len(records)).
		Msg("catalog searched")
	return FindResult{Records: records}, nil
}

func (s Service) Terms(ctx context.Context, req TermsRequest) (TermsResult, error) {
	catalog, err := s.Scan(ctx, req.Root)
	if err != nil {
		return TermsResult{}, err
	}
	return TermsResult{Terms: catalog.Terms()}, nil
}

// Installed lists the version directories of Dir that match Pattern,
// newest first. Latest is empty when nothing is installed.
func (s Service) Installed(ctx context.Context, req InstalledRequest) (InstalledResult, error) {
	if strings.TrimSpace(req.Dir) == "" {
		return InstalledResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("installed directory is required")
	}
	names, err := s.Store.InstalledVersions(req.Dir)
	if err != nil {
		return InstalledResult{}, err
	}
	versions, err := core.SelectInstalled(req.Pattern, names, req.Ignored)
	if err != nil {
		return InstalledResult{}, err
	}
	result := InstalledResult{Versions: versions}
	if len(versions) > 0 {
		result.Latest = versions[0]
	}
	log.Ctx(ctx).Debug().
		Str("dir", req.Dir).
		Int("versions", len(versions)).
		Msg("installed versions listed")
	return result, nil
}

// Promote copies the numbered artifact named File to its release name and
// returns the releases of its lineage, including the new one.
func (s Service) Promote(ctx context.Context, req PromoteRequest) (PromoteResult, error) {
	catalog, err := s.Scan(ctx, req.Root)
	if err != nil {
		return PromoteResult{}, err
	}
	var source *types.ArtifactRecord
	for _, record := range catalog.Records() {
		if record.File == req.File {
			source = &record
			break
		}
	}
	if source == nil {
		return PromoteResult{}, shared.ArtifactNotFoundError(req.File, fmt.Errorf("not in catalog %s", req.Root))
	}
	release, err := s.Store.Promote(ctx, req.Root, *source)
	if err != nil {
		return PromoteResult{}, err
	}
	catalog.Append(release)
	var releases []types.ArtifactRecord
	for _, record := range catalog.Lineage(release) {
		if record.IsRelease() {
			releases = append(releases, record)
		}
	}
	log.Ctx(ctx).Info().
		Str("source", source.File).
		Str("release", release.File).
		Int("releases", len(releases)).
		Msg("artifact promoted")
	return PromoteResult{Source: *source, Release: release, Releases: releases}, nil
}

// Ingest stores an uploaded file under its canonical location and returns
// the resulting catalog size.
func (s Service) Ingest(ctx context.Context, req IngestRequest) (IngestResult, error) {
	catalog, err := s.Scan(ctx, req.Root)
	if err != nil {
		return IngestResult{}, err
	}
	record, err := s.Store.Ingest(ctx, req.Root, req.Source, req.Name)
	if err != nil {
		return IngestResult{}, err
	}
	replaced := !catalog.Append(record)
	log.Ctx(ctx).Info().
		Str("artifact", record.File).
		Bool("replaced", replaced).
		Msg("artifact ingested")
	return IngestResult{Record: record, Artifacts: catalog.Len()}, nil
}

// Add registers an artifact name with the catalog of Root without touching
// disk and reports where it ranks among the builds of its lineage.
func (s Service) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	catalog, err := s.Scan(ctx, req.Root)
	if err != nil {
		return AddResult{}, err
	}
	record, added, err := catalog.Add(filepath.Base(req.File))
	if err != nil {
		return AddResult{}, err
	}
	lineage := catalog.Lineage(record)
	log.Ctx(ctx).Debug().
		Str("artifact", record.File).
		Bool("stored", !added).
		Int("lineage", len(lineage)).
		Msg("artifact added to catalog")
	return AddResult{Record: record, Stored: !added, Lineage: lineage}, nil
}
