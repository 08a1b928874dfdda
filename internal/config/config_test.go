package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_ResolveAndValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolve()
	require.NoError(t, cfg.Validate())
	require.Equal(t, filepath.Join(cfg.DataDir, "snapshots"), cfg.Snapshot.Dir)
}

func TestValidate_RequiresBucketWhenS3Enabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Snapshot.S3.Enabled = true
	require.Error(t, cfg.Validate())

	cfg.Snapshot.S3.Bucket = "traces"
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracedb.yaml")
	yamlBody := "data_dir: /tmp/tracedb-test\nsnapshot:\n  s3:\n    enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/tracedb-test", cfg.DataDir)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("TRACEDB_DATA_DIR", "/tmp/env-dir")
	t.Setenv("TRACEDB_S3_BUCKET", "from-env")

	cfg := DefaultConfig()
	LoadFromEnv(cfg, "")

	require.Equal(t, "/tmp/env-dir", cfg.DataDir)
	require.Equal(t, "from-env", cfg.Snapshot.S3.Bucket)
}
