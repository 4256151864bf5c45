package server

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	LookupServiceName = "birdlog.v1.LookupService"

	LookupServiceLookupBirdProcedure = "/" + LookupServiceName + "/LookupBird"
	LookupServiceGetMediaProcedure   = "/" + LookupServiceName + "/GetMedia"
)

type LookupBirdRequest struct {
	Term string `json:"term"`
}

type LookupBirdResponse struct {
	Found       bool   `json:"found"`
	SwedishName string `json:"swedishName,omitempty"`
	LatinName   string `json:"latinName,omitempty"`
}

type GetMediaRequest struct {
	LatinName   string `json:"latinName"`
	SwedishName string `json:"swedishName"`
}

type GetMediaResponse struct {
	ImageURL     string `json:"imageUrl,omitempty"`
	FullImageURL string `json:"fullImageUrl,omitempty"`
	WikiURL      string `json:"wikiUrl,omitempty"`
}

type LookupServiceHandler interface {
	LookupBird(context.Context, *connect.Request[LookupBirdRequest]) (*connect.Response[LookupBirdResponse], error)
	GetMedia(context.Context, *connect.Request[GetMediaRequest]) (*connect.Response[GetMediaResponse], error)
}

// NewLookupServiceHandler returns the path prefix to mount the handler on.
func NewLookupServiceHandler(svc LookupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	lookupBirdHandler := connect.NewUnaryHandler(
		LookupServiceLookupBirdProcedure,
		svc.LookupBird,
		opts...,
	)
	getMediaHandler := connect.NewUnaryHandler(
		LookupServiceGetMediaProcedure,
		svc.GetMedia,
		opts...,
	)
	return "/" + LookupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LookupServiceLookupBirdProcedure:
			lookupBirdHandler.ServeHTTP(w, r)
		case LookupServiceGetMediaProcedure:
			getMediaHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type LookupServiceClient struct {
	lookupBird *connect.Client[LookupBirdRequest, LookupBirdResponse]
	getMedia   *connect.Client[GetMediaRequest, GetMediaResponse]
}

func NewLookupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LookupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &LookupServiceClient{
		lookupBird: connect.NewClient[LookupBirdRequest, LookupBirdResponse](
			httpClient,
			baseURL+LookupServiceLookupBirdProcedure,
			opts...,
		),
		getMedia: connect.NewClient[GetMediaRequest, GetMediaResponse](
			httpClient,
			baseURL+LookupServiceGetMediaProcedure,
			opts...,
		),
	}
}

func (c *LookupServiceClient) LookupBird(ctx context.Context, req *connect.Request[LookupBirdRequest]) (*connect.Response[LookupBirdResponse], error) {
	return c.lookupBird.CallUnary(ctx, req)
}

func (c *LookupServiceClient) GetMedia(ctx context.Context, req *connect.Request[GetMediaRequest]) (*connect.Response[GetMediaResponse], error) {
	return c.getMedia.CallUnary(ctx, req)
}
