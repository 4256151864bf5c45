// Package testutil provides shared test helpers for config files and fake Wikimedia APIs.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// unreachableURL refuses connections, so sources left out of Endpoints fail fast.
const unreachableURL = "http://127.0.0.1:1"

// Endpoints are the base URLs the test config points each source at.
// An empty field points the source at an address that refuses connections.
type Endpoints struct {
	Wikipedia string
	Wikidata  string
	Commons   string
	Nominatim string
}

func orUnreachable(u string) string {
	if u == "" {
		return unreachableURL
	}
	return u
}

// SetupTestConfig writes a config file that sends every source to endpoints without pacing,
// retry delays or circuit breaking, and keeps data under tmpDir/data.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, endpoints Endpoints) string {
	t.Helper()

	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	configContent := fmt.Sprintf(`sources:
  wikipedia:
    base_url: %s
    min_interval: 0s
  wikidata:
    base_url: %s
    min_interval: 0s
  commons:
    base_url: %s
    min_interval: 0s
  nominatim:
    base_url: %s
    min_interval: 0s
fetch:
  max_attempts: 2
  base_delay: 1ms
  max_delay: 2ms
  timeout: 5s
  breaker:
    enabled: false
storage:
  type: file
  data_directory: %s
`,
		orUnreachable(endpoints.Wikipedia),
		orUnreachable(endpoints.Wikidata),
		orUnreachable(endpoints.Commons),
		orUnreachable(endpoints.Nominatim),
		dataDir,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
