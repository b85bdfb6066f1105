package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sheetflow/sheetflow-backend/pkg/config"
)

func newFakeConfig() config.Config {
	return config.Config{
		Server: config.Server{
			Hostname: "localhost",
			Address:  "127.0.0.1",
			Port:     "8080",
		},
		SQLite: config.SQLite{
			DatabasePath: "data/sheetflow.db",
		},
		Uploads: config.Uploads{
			Directory: "uploads",
		},
		Query: config.Query{
			MaxScriptStatements: 100,
		},
		LogLevel: "info",
		Debug:    false,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		config    config.Config
		expectErr bool
	}{
		{
			name:      "Valid config",
			config:    newFakeConfig(),
			expectErr: false,
		},
		{
			name: "Missing server address",
			config: func() config.Config {
				cfg := newFakeConfig()
				cfg.Server.Address = ""

				return cfg
			}(),
			expectErr: true,
		},
		{
			name: "Missing database path",
			config: func() config.Config {
				cfg := newFakeConfig()
				cfg.SQLite.DatabasePath = ""

				return cfg
			}(),
			expectErr: true,
		},
		{
			name: "Zero script statement cap",
			config: func() config.Config {
				cfg := newFakeConfig()
				cfg.Query.MaxScriptStatements = 0

				return cfg
			}(),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if err != nil && !tc.expectErr {
				t.Errorf("unexpected error: %v", err)
			}

			if err == nil && tc.expectErr {
				t.Errorf("expected error, got none")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name      string
		config    string
		path      string
		envPrefix string
		loader    config.Loader
		binder    config.Binder
		envs      map[string]string
		expect    config.Config
		expectErr bool
	}{
		{
			name:      "Standard config",
			config:    "config",
			path:      "testdata",
			loader:    config.NewFileSystemLoader(),
			expect:    newFakeConfig(),
			expectErr: false,
		},
		{
			name:   "Standard config with env overrides",
			config: "config",
			path:   "testdata",
			loader: config.NewFileSystemLoader(),
			expect: func() config.Config {
				cfg := newFakeConfig()
				cfg.Server.Address = "example.com"

				return cfg
			}(),
			envs: map[string]string{
				"SERVER_ADDRESS": "example.com",
			},
		},
		{
			name:      "Standard config with env prefix overrides",
			config:    "config",
			path:      "testdata",
			envPrefix: "sheetflow",
			loader:    config.NewFileSystemLoader(),
			expect: func() config.Config {
				cfg := newFakeConfig()
				cfg.Server.Address = "example.com"

				return cfg
			}(),
			envs: map[string]string{
				"SHEETFLOW_SERVER_ADDRESS": "example.com",
			},
		},
		{
			name:      "Standard config with env overrides and binder",
			config:    "config",
			path:      "testdata",
			envPrefix: "sheetflow",
			loader:    config.NewFileSystemLoader(),
			binder: config.NewEnvBinder(map[string]string{
				"SOME_RANDOM_DATABASE_PATH": "sqlite.database_path",
			}),
			expect: func() config.Config {
				cfg := newFakeConfig()
				cfg.SQLite.DatabasePath = "/tmp/override.db"

				return cfg
			}(),
			envs: map[string]string{
				"SOME_RANDOM_DATABASE_PATH": "/tmp/override.db",
			},
		},
		{
			name:      "Missing config file",
			config:    "nosuchconfig",
			path:      "testdata",
			loader:    config.NewFileSystemLoader(),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.envs {
				t.Setenv(k, v)
			}

			cfg, err := tc.loader.Load(tc.config, tc.path, tc.envPrefix, tc.binder)
			if err != nil && !tc.expectErr {
				t.Errorf("unexpected error: %v", err)
			}

			if err == nil && tc.expectErr {
				t.Errorf("expected error, got none")
			}

			if !tc.expectErr {
				if diff := cmp.Diff(tc.expect, cfg); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func getWorkingDir(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Errorf("get working dir: %v", err)
	}

	return wd
}

func TestProcessConfigPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		path      string
		expect    config.FileParts
		expectErr bool
	}{
		{
			name: "Valid config path",
			path: "testdata/config.yaml",
			expect: config.FileParts{
				FileName: "config",
				Path:     filepath.Join(getWorkingDir(t), "testdata"),
			},
		},
		{
			name:      "Invalid extension",
			path:      "testdata/config.json",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := config.ProcessConfigPath(tc.path)
			if err != nil && !tc.expectErr {
				t.Errorf("unexpected error: %v", err)
			}

			if err == nil && tc.expectErr {
				t.Errorf("expected error, got none")
			}

			if !tc.expectErr {
				if diff := cmp.Diff(tc.expect, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
