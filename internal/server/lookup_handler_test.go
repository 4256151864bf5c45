package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/birdlog/internal/media"
	mock_lookup "github.com/at-ishikawa/birdlog/internal/mocks/lookup"
	mock_media "github.com/at-ishikawa/birdlog/internal/mocks/media"
	"github.com/at-ishikawa/birdlog/internal/taxon"
)

func TestLookupHandler_LookupBird(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		setup    func(resolver *mock_lookup.MockResolver)
		want     *LookupBirdResponse
		wantCode connect.Code
	}{
		{
			name: "resolved",
			term: " Sula nebouxii ",
			setup: func(resolver *mock_lookup.MockResolver) {
				resolver.EXPECT().LookupBird(gomock.Any(), "Sula nebouxii").
					Return(&taxon.Name{Swedish: "blåfotad sula", Latin: "sula nebouxii"})
			},
			want: &LookupBirdResponse{Found: true, SwedishName: "blåfotad sula", LatinName: "sula nebouxii"},
		},
		{
			name: "latin only",
			term: "knölsvan",
			setup: func(resolver *mock_lookup.MockResolver) {
				resolver.EXPECT().LookupBird(gomock.Any(), "knölsvan").Return(&taxon.Name{Latin: "cygnus olor"})
			},
			want: &LookupBirdResponse{Found: true, LatinName: "cygnus olor"},
		},
		{
			name: "not found",
			term: "xyzzyzzy123",
			setup: func(resolver *mock_lookup.MockResolver) {
				resolver.EXPECT().LookupBird(gomock.Any(), "xyzzyzzy123").Return(nil)
			},
			want: &LookupBirdResponse{},
		},
		{
			name:     "blank term",
			term:     "   ",
			setup:    func(resolver *mock_lookup.MockResolver) {},
			wantCode: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			resolver := mock_lookup.NewMockResolver(ctrl)
			tt.setup(resolver)
			handler := NewLookupHandler(resolver, mock_media.NewMockLooker(ctrl))

			resp, err := handler.LookupBird(context.Background(), connect.NewRequest(&LookupBirdRequest{Term: tt.term}))
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Msg)
		})
	}
}

func TestLookupHandler_GetMedia(t *testing.T) {
	tests := []struct {
		name     string
		req      *GetMediaRequest
		setup    func(looker *mock_media.MockLooker)
		want     *GetMediaResponse
		wantCode connect.Code
	}{
		{
			name: "found",
			req:  &GetMediaRequest{LatinName: "Sula nebouxii", SwedishName: "blåfotad sula"},
			setup: func(looker *mock_media.MockLooker) {
				looker.EXPECT().Lookup(gomock.Any(), "Sula nebouxii", "blåfotad sula").Return(media.Info{
					ImageURL:     "https://upload.wikimedia.org/100px-Booby.jpg",
					FullImageURL: "https://upload.wikimedia.org/800px-Booby.jpg",
					WikiURL:      "https://sv.wikipedia.org/wiki/Blåfotad_sula",
				})
			},
			want: &GetMediaResponse{
				ImageURL:     "https://upload.wikimedia.org/100px-Booby.jpg",
				FullImageURL: "https://upload.wikimedia.org/800px-Booby.jpg",
				WikiURL:      "https://sv.wikipedia.org/wiki/Blåfotad_sula",
			},
		},
		{
			name: "swedish name only",
			req:  &GetMediaRequest{SwedishName: "knölsvan"},
			setup: func(looker *mock_media.MockLooker) {
				looker.EXPECT().Lookup(gomock.Any(), "", "knölsvan").Return(media.Info{WikiURL: "https://sv.wikipedia.org/wiki/Knölsvan"})
			},
			want: &GetMediaResponse{WikiURL: "https://sv.wikipedia.org/wiki/Knölsvan"},
		},
		{
			name: "nothing found",
			req:  &GetMediaRequest{LatinName: "Xyzzy xyzzy"},
			setup: func(looker *mock_media.MockLooker) {
				looker.EXPECT().Lookup(gomock.Any(), "Xyzzy xyzzy", "").Return(media.Info{})
			},
			want: &GetMediaResponse{},
		},
		{
			name:     "no names",
			req:      &GetMediaRequest{LatinName: " "},
			setup:    func(looker *mock_media.MockLooker) {},
			wantCode: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			looker := mock_media.NewMockLooker(ctrl)
			tt.setup(looker)
			handler := NewLookupHandler(mock_lookup.NewMockResolver(ctrl), looker)

			resp, err := handler.GetMedia(context.Background(), connect.NewRequest(tt.req))
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Msg)
		})
	}
}

func TestLookupService_OverHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mock_lookup.NewMockResolver(ctrl)
	looker := mock_media.NewMockLooker(ctrl)
	resolver.EXPECT().LookupBird(gomock.Any(), "knölsvan").Return(&taxon.Name{Swedish: "knölsvan", Latin: "cygnus olor"})
	looker.EXPECT().Lookup(gomock.Any(), "cygnus olor", "knölsvan").Return(media.Info{WikiURL: "https://sv.wikipedia.org/wiki/Knölsvan"})

	mux := http.NewServeMux()
	mux.Handle(NewLookupServiceHandler(NewLookupHandler(resolver, looker)))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewLookupServiceClient(server.Client(), server.URL)

	lookupResp, err := client.LookupBird(context.Background(), connect.NewRequest(&LookupBirdRequest{Term: "knölsvan"}))
	require.NoError(t, err)
	assert.Equal(t, &LookupBirdResponse{Found: true, SwedishName: "knölsvan", LatinName: "cygnus olor"}, lookupResp.Msg)

	mediaResp, err := client.GetMedia(context.Background(), connect.NewRequest(&GetMediaRequest{
		LatinName:   lookupResp.Msg.LatinName,
		SwedishName: lookupResp.Msg.SwedishName,
	}))
	require.NoError(t, err)
	assert.Equal(t, "https://sv.wikipedia.org/wiki/Knölsvan", mediaResp.Msg.WikiURL)

	_, err = client.LookupBird(context.Background(), connect.NewRequest(&LookupBirdRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestLookupService_UnknownProcedure(t *testing.T) {
	ctrl := gomock.NewController(t)
	path, handler := NewLookupServiceHandler(NewLookupHandler(mock_lookup.NewMockResolver(ctrl), mock_media.NewMockLooker(ctrl)))
	assert.Equal(t, "/birdlog.v1.LookupService/", path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/birdlog.v1.LookupService/Nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
