package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"shelfmark/internal/modules/provider/domain"
	"shelfmark/internal/modules/provider/dto"
	providerout "shelfmark/internal/modules/provider/port/out"
)

type ProviderService struct {
	store providerout.ManifestStore
	host  providerout.Host
}

func NewProviderService(store providerout.ManifestStore, host providerout.Host) *ProviderService {
	return &ProviderService{store: store, host: host}
}

func (s *ProviderService) List(ctx context.Context) ([]dto.ProviderInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.ProviderInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary})
	}
	return out, nil
}

// Doctor reports per-provider health without failing the whole check when
// one manifest is broken.
func (s *ProviderService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if result.BinaryReachable {
			result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		}
		if result.BinaryReachable && result.ChecksumValid && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !result.BinaryReachable {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		} else if !result.ChecksumValid {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *ProviderService) Describe(ctx context.Context, providerName string) (dto.DescribeOutput, error) {
	manifest, err := s.getRunnableManifest(ctx, providerName)
	if err != nil {
		return dto.DescribeOutput{}, err
	}
	meta, err := s.host.Describe(ctx, manifest)
	if err != nil {
		return dto.DescribeOutput{}, err
	}
	return dto.DescribeOutput{Name: meta.Name, Version: meta.Version, Sources: meta.Sources}, nil
}

func (s *ProviderService) Lookup(ctx context.Context, input dto.LookupInput) (dto.LookupOutput, error) {
	query := domain.LookupQuery{Title: input.Title, Author: input.Author, ISBN: input.ISBN}
	if err := query.Validate(); err != nil {
		return dto.LookupOutput{}, err
	}
	manifest, err := s.getRunnableManifest(ctx, input.Provider)
	if err != nil {
		return dto.LookupOutput{}, err
	}
	result, err := s.host.Lookup(ctx, manifest, query)
	if err != nil {
		return dto.LookupOutput{}, err
	}
	if !result.Found {
		return dto.LookupOutput{}, fmt.Errorf("%w: provider %s", domain.ErrNoMatch, input.Provider)
	}
	return dto.LookupOutput{
		Provider:  manifest.Name,
		Found:     true,
		Title:     result.Title,
		Authors:   result.Authors,
		Genres:    result.Genres,
		PageCount: result.PageCount,
	}, nil
}

func (s *ProviderService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate provider name: %s", manifest.Name)
		}
		seen[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *ProviderService) getRunnableManifest(ctx context.Context, providerName string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	manifest := domain.Manifest{}
	found := false
	for _, item := range manifests {
		if item.Name == providerName {
			manifest = item
			found = true
			break
		}
	}
	if !found {
		return domain.Manifest{}, fmt.Errorf("provider %q not found", providerName)
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrProviderDisabled, providerName)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	if s.host != nil {
		if err := s.host.CheckLifecycle(ctx, manifest); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrProviderTimeout, providerName)
			}
			return domain.Manifest{}, err
		}
	}
	return manifest, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read provider binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
