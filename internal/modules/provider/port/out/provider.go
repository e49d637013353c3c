package out

import (
	"context"

	"shelfmark/internal/modules/provider/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	Describe(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Lookup(ctx context.Context, manifest domain.Manifest, query domain.LookupQuery) (domain.LookupResult, error)
}
