package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	providerout "shelfmark/internal/modules/provider/adapter/out"
	"shelfmark/internal/modules/provider/domain"
	"shelfmark/internal/modules/provider/dto"
	"shelfmark/internal/modules/provider/service"
)

type fakeHost struct {
	meta    domain.Metadata
	result  domain.LookupResult
	lifeErr error
}

func (f *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error {
	return f.lifeErr
}

func (f *fakeHost) Describe(context.Context, domain.Manifest) (domain.Metadata, error) {
	return f.meta, nil
}

func (f *fakeHost) Lookup(context.Context, domain.Manifest, domain.LookupQuery) (domain.LookupResult, error) {
	return f.result, nil
}

func writeManifests(t *testing.T, dataPath string, manifests []domain.Manifest) {
	t.Helper()
	payload, err := json.Marshal(manifests)
	if err != nil {
		t.Fatalf("marshal manifests: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataPath, "providers.json"), payload, 0o644); err != nil {
		t.Fatalf("write manifests: %v", err)
	}
}

func writeBinary(t *testing.T, dataPath, name string) (string, string) {
	t.Helper()
	path := filepath.Join(dataPath, name)
	payload := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	sum := sha256.Sum256(payload)
	return path, hex.EncodeToString(sum[:])
}

func TestLookupThroughEnabledProvider(t *testing.T) {
	t.Parallel()
	dataPath := t.TempDir()
	binary, checksum := writeBinary(t, dataPath, "openlibrary")
	writeManifests(t, dataPath, []domain.Manifest{
		{Name: "openlibrary", Version: "1.0.0", Binary: binary, SHA256: checksum, Enabled: true},
	})
	host := &fakeHost{result: domain.LookupResult{Found: true, Title: "Dune", Authors: []string{"Frank Herbert"}, PageCount: 412}}
	svc := service.NewProviderService(providerout.NewFileManifestStore(dataPath), host)

	out, err := svc.Lookup(context.Background(), dto.LookupInput{Provider: "openlibrary", Title: "dune"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if out.Title != "Dune" || out.PageCount != 412 || out.Provider != "openlibrary" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestLookupNoMatch(t *testing.T) {
	t.Parallel()
	dataPath := t.TempDir()
	binary, checksum := writeBinary(t, dataPath, "openlibrary")
	writeManifests(t, dataPath, []domain.Manifest{
		{Name: "openlibrary", Version: "1.0.0", Binary: binary, SHA256: checksum, Enabled: true},
	})
	svc := service.NewProviderService(providerout.NewFileManifestStore(dataPath), &fakeHost{})

	if _, err := svc.Lookup(context.Background(), dto.LookupInput{Provider: "openlibrary", Title: "nope"}); !errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestLookupRejectsEmptyQuery(t *testing.T) {
	t.Parallel()
	svc := service.NewProviderService(providerout.NewFileManifestStore(t.TempDir()), &fakeHost{})
	if _, err := svc.Lookup(context.Background(), dto.LookupInput{Provider: "openlibrary"}); err == nil {
		t.Fatalf("empty query must be rejected")
	}
}

func TestDisabledProviderRefusesToRun(t *testing.T) {
	t.Parallel()
	dataPath := t.TempDir()
	binary, checksum := writeBinary(t, dataPath, "openlibrary")
	writeManifests(t, dataPath, []domain.Manifest{
		{Name: "openlibrary", Version: "1.0.0", Binary: binary, SHA256: checksum, Enabled: false},
	})
	svc := service.NewProviderService(providerout.NewFileManifestStore(dataPath), &fakeHost{})

	if _, err := svc.Describe(context.Background(), "openlibrary"); !errors.Is(err, domain.ErrProviderDisabled) {
		t.Fatalf("expected ErrProviderDisabled, got %v", err)
	}
}

func TestChecksumMismatchRefusesToRun(t *testing.T) {
	t.Parallel()
	dataPath := t.TempDir()
	binary, _ := writeBinary(t, dataPath, "openlibrary")
	wrong := sha256.Sum256([]byte("something else"))
	writeManifests(t, dataPath, []domain.Manifest{
		{Name: "openlibrary", Version: "1.0.0", Binary: binary, SHA256: hex.EncodeToString(wrong[:]), Enabled: true},
	})
	svc := service.NewProviderService(providerout.NewFileManifestStore(dataPath), &fakeHost{})

	if _, err := svc.Describe(context.Background(), "openlibrary"); !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestLifecycleTimeoutMapsToProviderTimeout(t *testing.T) {
	t.Parallel()
	dataPath := t.TempDir()
	binary, checksum := writeBinary(t, dataPath, "openlibrary")
	writeManifests(t, dataPath, []domain.Manifest{
		{Name: "openlibrary", Version: "1.0.0", Binary: binary, SHA256: checksum, Enabled: true},
	})
	svc := service.NewProviderService(providerout.NewFileManifestStore(dataPath), &fakeHost{lifeErr: context.DeadlineExceeded})

	if _, err := svc.Describe(context.Background(), "openlibrary"); !errors.Is(err, domain.ErrProviderTimeout) {
		t.Fatalf("expected ErrProviderTimeout, got %v", err)
	}
}

func TestListEmptyWithoutManifestFile(t *testing.T) {
	t.Parallel()
	svc := service.NewProviderService(providerout.NewFileManifestStore(t.TempDir()), &fakeHost{})
	providers, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(providers) != 0 {
		t.Fatalf("expected no providers, got %d", len(providers))
	}
}

func TestDoctorReportsBrokenManifestWithoutFailing(t *testing.T) {
	t.Parallel()
	dataPath := t.TempDir()
	binary, checksum := writeBinary(t, dataPath, "openlibrary")
	writeManifests(t, dataPath, []domain.Manifest{
		{Name: "openlibrary", Version: "1.0.0", Binary: binary, SHA256: checksum, Enabled: true},
		{Name: "broken", Version: "1.0.0", Binary: filepath.Join(dataPath, "missing"), SHA256: checksum, Enabled: true},
	})
	svc := service.NewProviderService(providerout.NewFileManifestStore(dataPath), &fakeHost{})

	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both providers reported, got %d", len(results))
	}
	if !results[0].BinaryReachable || !results[0].ChecksumValid || !results[0].LifecycleOK {
		t.Fatalf("healthy provider: %+v", results[0])
	}
	if results[1].BinaryReachable || results[1].Error == "" {
		t.Fatalf("broken provider must carry an error: %+v", results[1])
	}
}
