package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	providerrpc "shelfmark/internal/modules/provider/adapter/out/rpc"
	"shelfmark/internal/modules/provider/domain"
	providerout "shelfmark/internal/modules/provider/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

type GRPCHost struct{}

func NewGRPCHost() providerout.Host {
	return &GRPCHost{}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.Describe(callCtx); err != nil {
		return fmt.Errorf("describe provider: %w", err)
	}
	return nil
}

func (h *GRPCHost) Describe(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.Describe(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("describe provider: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Sources: meta.Sources}, nil
}

func (h *GRPCHost) Lookup(ctx context.Context, manifest domain.Manifest, query domain.LookupQuery) (domain.LookupResult, error) {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return domain.LookupResult{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	response, err := client.Lookup(callCtx, &providerrpc.LookupRequest{
		Title:  query.Title,
		Author: query.Author,
		ISBN:   query.ISBN,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.LookupResult{}, fmt.Errorf("%w: %s", domain.ErrProviderTimeout, manifest.Name)
		}
		return domain.LookupResult{}, fmt.Errorf("lookup: %w", err)
	}
	return domain.LookupResult{
		Found:     response.Found,
		Title:     response.Title,
		Authors:   response.Authors,
		Genres:    response.Genres,
		PageCount: int(response.PageCount),
	}, nil
}

func (h *GRPCHost) connect(ctx context.Context, manifest domain.Manifest, startTimeout time.Duration) (providerrpc.MetadataProviderClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  providerrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          providerrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider client: %w", err)
	}
	raw, err := rpcClient.Dispense(providerrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider: %w", err)
	}
	typed, ok := raw.(providerrpc.MetadataProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
