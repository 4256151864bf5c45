// Package server provides Connect RPC handlers for the lookup service.
package server

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/birdlog/internal/lookup"
	"github.com/at-ishikawa/birdlog/internal/media"
)

var (
	errTermRequired = errors.New("term is required")
	errNameRequired = errors.New("latinName or swedishName is required")
)

// LookupHandler implements the LookupServiceHandler interface.
type LookupHandler struct {
	resolver lookup.Resolver
	media    media.Looker
}

var _ LookupServiceHandler = (*LookupHandler)(nil)

func NewLookupHandler(resolver lookup.Resolver, looker media.Looker) *LookupHandler {
	return &LookupHandler{
		resolver: resolver,
		media:    looker,
	}
}

// LookupBird resolves a free-text name. An unresolvable name is not an error; Found is false.
func (h *LookupHandler) LookupBird(
	ctx context.Context,
	req *connect.Request[LookupBirdRequest],
) (*connect.Response[LookupBirdResponse], error) {
	term := strings.TrimSpace(req.Msg.Term)
	if term == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errTermRequired)
	}

	result := h.resolver.LookupBird(ctx, term)
	if result == nil {
		return connect.NewResponse(&LookupBirdResponse{}), nil
	}
	return connect.NewResponse(&LookupBirdResponse{
		Found:       true,
		SwedishName: result.Swedish,
		LatinName:   result.Latin,
	}), nil
}

// GetMedia returns image and article links for a species. Missing media is an empty response.
func (h *LookupHandler) GetMedia(
	ctx context.Context,
	req *connect.Request[GetMediaRequest],
) (*connect.Response[GetMediaResponse], error) {
	latin := strings.TrimSpace(req.Msg.LatinName)
	swedish := strings.TrimSpace(req.Msg.SwedishName)
	if latin == "" && swedish == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNameRequired)
	}

	info := h.media.Lookup(ctx, latin, swedish)
	return connect.NewResponse(&GetMediaResponse{
		ImageURL:     info.ImageURL,
		FullImageURL: info.FullImageURL,
		WikiURL:      info.WikiURL,
	}), nil
}
