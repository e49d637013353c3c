package main

import (
	"context"
	"strings"

	pluginrpc "shelfmark/internal/modules/provider/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type record struct {
	Title     string
	Authors   []string
	Genres    []string
	PageCount int32
	ISBNs     []string
}

// A small offline catalog so the provider works without network access.
var catalog = []record{
	{
		Title:     "The Left Hand of Darkness",
		Authors:   []string{"Ursula K. Le Guin"},
		Genres:    []string{"Science Fiction"},
		PageCount: 304,
		ISBNs:     []string{"9780441478125", "0441478123"},
	},
	{
		Title:     "Pride and Prejudice",
		Authors:   []string{"Jane Austen"},
		Genres:    []string{"Classics", "Romance"},
		PageCount: 432,
		ISBNs:     []string{"9780141439518", "0141439513"},
	},
	{
		Title:     "The Name of the Wind",
		Authors:   []string{"Patrick Rothfuss"},
		Genres:    []string{"Fantasy"},
		PageCount: 662,
		ISBNs:     []string{"9780756404741", "075640474X"},
	},
	{
		Title:     "Thinking, Fast and Slow",
		Authors:   []string{"Daniel Kahneman"},
		Genres:    []string{"Psychology", "Nonfiction"},
		PageCount: 499,
		ISBNs:     []string{"9780374533557"},
	},
	{
		Title:     "The Pragmatic Programmer",
		Authors:   []string{"Andrew Hunt", "David Thomas"},
		Genres:    []string{"Programming"},
		PageCount: 352,
		ISBNs:     []string{"9780135957059"},
	},
}

type server struct{}

func (s *server) Describe(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:    "openlibrary",
		Version: "1.0.0",
		Sources: []string{"builtin"},
	}, nil
}

func (s *server) Lookup(_ context.Context, in *pluginrpc.LookupRequest) (*pluginrpc.LookupResponse, error) {
	for _, rec := range catalog {
		if matches(rec, in) {
			return &pluginrpc.LookupResponse{
				Found:     true,
				Title:     rec.Title,
				Authors:   rec.Authors,
				Genres:    rec.Genres,
				PageCount: rec.PageCount,
			}, nil
		}
	}
	return &pluginrpc.LookupResponse{}, nil
}

func matches(rec record, in *pluginrpc.LookupRequest) bool {
	if isbn := normalizeISBN(in.ISBN); isbn != "" {
		for _, candidate := range rec.ISBNs {
			if normalizeISBN(candidate) == isbn {
				return true
			}
		}
		return false
	}
	if in.Title == "" {
		return false
	}
	if !strings.Contains(strings.ToLower(rec.Title), strings.ToLower(in.Title)) {
		return false
	}
	if in.Author == "" {
		return true
	}
	for _, author := range rec.Authors {
		if strings.Contains(strings.ToLower(author), strings.ToLower(in.Author)) {
			return true
		}
	}
	return false
}

func normalizeISBN(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
