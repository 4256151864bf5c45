package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/birdlog/internal/config"
	"github.com/at-ishikawa/birdlog/internal/media"
	"github.com/at-ishikawa/birdlog/internal/species"
	"github.com/at-ishikawa/birdlog/internal/taxon"
	"github.com/at-ishikawa/birdlog/internal/testutil"
)

func loadTestConfig(t *testing.T, endpoints testutil.Endpoints) *config.Config {
	t.Helper()
	loader, err := config.NewConfigLoader(testutil.SetupTestConfig(t, t.TempDir(), endpoints))
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	return cfg
}

func TestNew_FileStorage(t *testing.T) {
	wikidataServer := testutil.NewAPIServer(t,
		testutil.APIRoute{
			Match: map[string]string{"action": "wbsearchentities"},
			Body:  `{"search":[{"id":"Q33541"}]}`,
		},
		testutil.APIRoute{
			Match: map[string]string{"action": "wbgetentities", "ids": "Q33541"},
			Body: `{"entities":{"Q33541":{"id":"Q33541",
				"labels":{"sv":{"language":"sv","value":"Blåfotad sula"}},
				"claims":{
					"P225":[{"mainsnak":{"datavalue":{"value":"Sula nebouxii"}}}],
					"P18":[{"mainsnak":{"datavalue":{"value":"Sula nebouxii.jpg"}}}]
				},
				"sitelinks":{"svwiki":{"site":"svwiki","title":"Blåfotad sula"}}}}}`,
		},
	)
	commonsServer := testutil.NewAPIServer(t,
		testutil.APIRoute{
			Match: map[string]string{"titles": "File:Sula nebouxii.jpg", "iiurlwidth": "100"},
			Body:  `{"query":{"pages":{"1":{"imageinfo":[{"thumburl":"https://upload.wikimedia.org/100px-Sula_nebouxii.jpg"}]}}}}`,
		},
		testutil.APIRoute{
			Match: map[string]string{"titles": "File:Sula nebouxii.jpg", "iiurlwidth": "800"},
			Body:  `{"query":{"pages":{"1":{"imageinfo":[{"thumburl":"https://upload.wikimedia.org/800px-Sula_nebouxii.jpg"}]}}}}`,
		},
	)
	wikipediaServer := testutil.NewAPIServer(t)

	cfg := loadTestConfig(t, testutil.Endpoints{
		Wikipedia: wikipediaServer.URL,
		Wikidata:  wikidataServer.URL,
		Commons:   commonsServer.URL,
	})
	components, err := New(cfg)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, components.Close())
	}()

	assert.IsType(t, &media.FileStore{}, components.MediaStore)
	assert.IsType(t, &species.FileRepository{}, components.Species)

	ctx := context.Background()
	got := components.Lookup.LookupBird(ctx, "Sula nebouxii")
	require.NotNil(t, got)
	assert.Equal(t, taxon.Name{Swedish: "blåfotad sula", Latin: "sula nebouxii"}, *got)
	assert.Empty(t, wikipediaServer.Requests())

	info := components.Media.Lookup(ctx, got.Latin, got.Swedish)
	assert.Equal(t, media.Info{
		ImageURL:     "https://upload.wikimedia.org/100px-Sula_nebouxii.jpg",
		FullImageURL: "https://upload.wikimedia.org/800px-Sula_nebouxii.jpg",
		WikiURL:      "https://sv.wikipedia.org/wiki/Blåfotad_sula",
	}, info)

	stored, err := components.MediaStore.FindByKey(ctx, "sula nebouxii")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, info, stored.Info())
}

func TestNew_DatabaseStorage(t *testing.T) {
	cfg := loadTestConfig(t, testutil.Endpoints{})
	cfg.Storage.Type = config.StorageDatabase

	components, err := New(cfg)
	require.NoError(t, err)

	assert.IsType(t, &media.DBStore{}, components.MediaStore)
	assert.IsType(t, &species.DBRepository{}, components.Species)
	assert.NoError(t, components.Close())
}

func TestNew_UnreachableSourcesResolveToNil(t *testing.T) {
	cfg := loadTestConfig(t, testutil.Endpoints{})
	components, err := New(cfg)
	require.NoError(t, err)
	defer func() {
		_ = components.Close()
	}()

	assert.Nil(t, components.Lookup.LookupBird(context.Background(), "Sula nebouxii"))
	assert.False(t, components.Media.Lookup(context.Background(), "Sula nebouxii", "").Found())
}
