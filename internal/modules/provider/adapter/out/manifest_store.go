package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"shelfmark/internal/modules/provider/domain"
	providerout "shelfmark/internal/modules/provider/port/out"
)

type FileManifestStore struct {
	path string
}

func NewFileManifestStore(dataPath string) providerout.ManifestStore {
	return &FileManifestStore{path: filepath.Join(dataPath, "providers.json")}
}

// Load reads the provider manifests. A missing file means no providers
// are configured, which is not an error.
func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read provider manifests: %w", err)
	}
	var manifests []domain.Manifest
	if err := json.Unmarshal(payload, &manifests); err != nil {
		return nil, fmt.Errorf("decode provider manifests: %w", err)
	}
	return manifests, nil
}
