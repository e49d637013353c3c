package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey   = "shelfmark"
	serviceName    = "shelfmark.provider.v1.MetadataProvider"
	jsonCodecName  = "json"
	methodDescribe = "/" + serviceName + "/Describe"
	methodLookup   = "/" + serviceName + "/Lookup"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SHELFMARK_PROVIDER",
	MagicCookieValue: "shelfmark",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Sources []string `json:"sources"`
}

type LookupRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

type LookupResponse struct {
	Found     bool     `json:"found"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Genres    []string `json:"genres"`
	PageCount int32    `json:"page_count"`
}

type MetadataProviderServer interface {
	Describe(ctx context.Context, in *Empty) (*Metadata, error)
	Lookup(ctx context.Context, in *LookupRequest) (*LookupResponse, error)
}

type MetadataProviderClient interface {
	Describe(ctx context.Context) (*Metadata, error)
	Lookup(ctx context.Context, in *LookupRequest) (*LookupResponse, error)
}

type metadataProviderClient struct {
	conn *grpc.ClientConn
}

func NewMetadataProviderClient(conn *grpc.ClientConn) MetadataProviderClient {
	return &metadataProviderClient{conn: conn}
}

func (c *metadataProviderClient) Describe(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodDescribe, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *metadataProviderClient) Lookup(ctx context.Context, in *LookupRequest) (*LookupResponse, error) {
	out := &LookupResponse{}
	if err := c.conn.Invoke(ctx, methodLookup, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterMetadataProviderServer(server grpc.ServiceRegistrar, impl MetadataProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*MetadataProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Describe",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Describe(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDescribe}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Describe(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Lookup",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &LookupRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Lookup(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodLookup}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*LookupRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Lookup(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/provider-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl MetadataProviderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterMetadataProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewMetadataProviderClient(conn), nil
}

func PluginMap(impl MetadataProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
