package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "KANBAN_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "KANBAN_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "KANBAN_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
		{name: "preserves whitespace", key: "KANBAN_TEST_GETENV_WS", setVal: strPtr("  spaced  "), fallback: "x", want: "  spaced  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "KANBAN_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "KANBAN_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "parses negative int", key: "KANBAN_TEST_INT_NEG", setVal: strPtr("-1"), fallback: 0, want: -1},
		{name: "parses zero", key: "KANBAN_TEST_INT_ZERO", setVal: strPtr("0"), fallback: 99, want: 0},
		{name: "returns fallback for empty string", key: "KANBAN_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "KANBAN_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "KANBAN_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
		{name: "errors on hex", key: "KANBAN_TEST_INT_HEX", setVal: strPtr("0xFF"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback bool
		want     bool
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "KANBAN_TEST_BOOL_UNSET", setVal: nil, fallback: false, want: false},
		{name: "fallback true when unset", key: "KANBAN_TEST_BOOL_UNSETTRUE", setVal: nil, fallback: true, want: true},
		{name: "parses true", key: "KANBAN_TEST_BOOL_TRUE", setVal: strPtr("true"), fallback: false, want: true},
		{name: "parses false", key: "KANBAN_TEST_BOOL_FALSE", setVal: strPtr("false"), fallback: true, want: false},
		{name: "parses 1", key: "KANBAN_TEST_BOOL_ONE", setVal: strPtr("1"), fallback: false, want: true},
		{name: "parses 0", key: "KANBAN_TEST_BOOL_ZERO", setVal: strPtr("0"), fallback: true, want: false},
		{name: "parses TRUE uppercase", key: "KANBAN_TEST_BOOL_UPPER", setVal: strPtr("TRUE"), fallback: false, want: true},
		{name: "parses t", key: "KANBAN_TEST_BOOL_T", setVal: strPtr("t"), fallback: false, want: true},
		{name: "errors on invalid", key: "KANBAN_TEST_BOOL_INV", setVal: strPtr("yes"), fallback: false, wantErr: true},
		{name: "errors on numeric non-bool", key: "KANBAN_TEST_BOOL_NUM", setVal: strPtr("2"), fallback: false, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvBool(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "KANBAN_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses seconds", key: "KANBAN_TEST_DUR_SEC", setVal: strPtr("30s"), fallback: 0, want: 30 * time.Second},
		{name: "parses minutes", key: "KANBAN_TEST_DUR_MIN", setVal: strPtr("15m"), fallback: 0, want: 15 * time.Minute},
		{name: "parses hours", key: "KANBAN_TEST_DUR_HR", setVal: strPtr("2h"), fallback: 0, want: 2 * time.Hour},
		{name: "parses composite", key: "KANBAN_TEST_DUR_COMP", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "parses nanosecond", key: "KANBAN_TEST_DUR_NS", setVal: strPtr("1ns"), fallback: 0, want: time.Nanosecond},
		{name: "parses zero", key: "KANBAN_TEST_DUR_ZERO", setVal: strPtr("0s"), fallback: 5 * time.Second, want: 0},
		{name: "errors on invalid", key: "KANBAN_TEST_DUR_INV", setVal: strPtr("notaduration"), fallback: 0, wantErr: true},
		{name: "errors on bare number", key: "KANBAN_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name     string
		setVal   *string
		fallback []string
		want     []string
	}{
		{name: "returns fallback when unset", fallback: []string{"a"}, want: []string{"a"}},
		{name: "splits and trims", setVal: strPtr(" http://a , http://b "), want: []string{"http://a", "http://b"}},
		{name: "drops empty items", setVal: strPtr("x,,y,"), want: []string{"x", "y"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv("KANBAN_TEST_LIST", *tc.setVal)
			}
			assert.Equal(t, tc.want, getEnvList("KANBAN_TEST_LIST", tc.fallback))
		})
	}
}

// ---------------------------------------------------------------------------
// Load() error cases
// ---------------------------------------------------------------------------

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		errMsg string
	}{
		// DB_PORT parse errors
		{name: "DB_PORT not a number", envKey: "KANBAN_DB_PORT", envVal: "abc", errMsg: "KANBAN_DB_PORT"},
		{name: "DB_PORT zero", envKey: "KANBAN_DB_PORT", envVal: "0", errMsg: "KANBAN_DB_PORT"},
		{name: "DB_PORT too high", envKey: "KANBAN_DB_PORT", envVal: "65536", errMsg: "KANBAN_DB_PORT"},

		// DB_MAX_CONNS
		{name: "DB_MAX_CONNS zero", envKey: "KANBAN_DB_MAX_CONNS", envVal: "0", errMsg: "KANBAN_DB_MAX_CONNS"},
		{name: "DB_MAX_CONNS not a number", envKey: "KANBAN_DB_MAX_CONNS", envVal: "many", errMsg: "KANBAN_DB_MAX_CONNS"},

		// Server timeouts
		{name: "SERVER_READ_TIMEOUT invalid", envKey: "KANBAN_SERVER_READ_TIMEOUT", envVal: "notduration", errMsg: "KANBAN_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT zero", envKey: "KANBAN_SERVER_WRITE_TIMEOUT", envVal: "0s", errMsg: "KANBAN_SERVER_WRITE_TIMEOUT"},

		// Rate limiting
		{name: "RATE_LIMIT_RPS zero", envKey: "KANBAN_RATE_LIMIT_RPS", envVal: "0", errMsg: "KANBAN_RATE_LIMIT_RPS"},
		{name: "RATE_LIMIT_BURST not a number", envKey: "KANBAN_RATE_LIMIT_BURST", envVal: "lots", errMsg: "KANBAN_RATE_LIMIT_BURST"},

		// Storage and pub/sub
		{name: "STORAGE_BACKEND unknown", envKey: "KANBAN_STORAGE_BACKEND", envVal: "s3", errMsg: "KANBAN_STORAGE_BACKEND"},
		{name: "PUBSUB unknown", envKey: "KANBAN_PUBSUB", envVal: "nats", errMsg: "KANBAN_PUBSUB"},
		{name: "REDIS_DB not a number", envKey: "KANBAN_REDIS_DB", envVal: "abc", errMsg: "KANBAN_REDIS_DB"},

		// Hydration
		{name: "DATASET_DELAY negative", envKey: "KANBAN_DATASET_DELAY", envVal: "-1s", errMsg: "KANBAN_DATASET_DELAY"},
		{name: "FETCH_TIMEOUT zero", envKey: "KANBAN_FETCH_TIMEOUT", envVal: "0s", errMsg: "KANBAN_FETCH_TIMEOUT"},
		{name: "HYDRATE_ON_START not a bool", envKey: "KANBAN_HYDRATE_ON_START", envVal: "yes", errMsg: "KANBAN_HYDRATE_ON_START"},
		{name: "CHECK_INVARIANTS not a bool", envKey: "KANBAN_CHECK_INVARIANTS", envVal: "maybe", errMsg: "KANBAN_CHECK_INVARIANTS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err, "expected error for %s=%q", tc.envKey, tc.envVal)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() happy paths
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Server defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, RateLimitConfig{RPS: 50, Burst: 100}, cfg.RateLimit)

	// Storage defaults.
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, ".kanban", cfg.Storage.Dir)
	assert.Equal(t, "kanban-board-state", cfg.Storage.Key)

	// Database defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "kanban", cfg.Database.User)
	assert.Equal(t, 10, cfg.Database.MaxConns)

	// Redis defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, PubSubLocal, cfg.PubSub)

	// Hydration defaults.
	assert.Equal(t, "/data.json", cfg.Dataset.URL)
	assert.Equal(t, time.Duration(0), cfg.Dataset.Delay)
	assert.Equal(t, 15*time.Second, cfg.Dataset.FetchTimeout)
	assert.True(t, cfg.Dataset.HydrateOnStart)
	assert.False(t, cfg.CheckInvariants)
	assert.Equal(t, "http://localhost:8080/data.json", cfg.DatasetURL())
}

func TestLoad_AllCustomValues(t *testing.T) {
	envs := map[string]string{
		"KANBAN_SERVER_ADDR":          "127.0.0.1:9090",
		"KANBAN_SERVER_READ_TIMEOUT":  "5s",
		"KANBAN_SERVER_WRITE_TIMEOUT": "15s",
		"KANBAN_CORS_ORIGINS":         "https://a.example,https://b.example",
		"KANBAN_RATE_LIMIT_RPS":       "5",
		"KANBAN_RATE_LIMIT_BURST":     "10",
		"KANBAN_STORAGE_BACKEND":      "SQLite",
		"KANBAN_STORAGE_DIR":          "/var/lib/kanban",
		"KANBAN_STORAGE_KEY":          "custom-key",
		"KANBAN_DB_HOST":              "db.prod.internal",
		"KANBAN_DB_PASSWORD":          "s3cret!",
		"KANBAN_REDIS_ADDR":           "redis.prod:6380",
		"KANBAN_REDIS_DB":             "3",
		"KANBAN_PUBSUB":               "redis",
		"KANBAN_DATASET_URL":          "https://cdn.example/data.json",
		"KANBAN_DATASET_DELAY":        "1500ms",
		"KANBAN_FETCH_TIMEOUT":        "3s",
		"KANBAN_HYDRATE_ON_START":     "false",
		"KANBAN_CHECK_INVARIANTS":     "true",
	}

	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, RateLimitConfig{RPS: 5, Burst: 10}, cfg.RateLimit)
	assert.Equal(t, StorageConfig{Backend: BackendSQLite, Dir: "/var/lib/kanban", Key: "custom-key"}, cfg.Storage)
	assert.Equal(t, "db.prod.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret!", cfg.Database.Password)
	assert.Equal(t, "redis.prod:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, PubSubRedis, cfg.PubSub)
	assert.Equal(t, 1500*time.Millisecond, cfg.Dataset.Delay)
	assert.Equal(t, 3*time.Second, cfg.Dataset.FetchTimeout)
	assert.False(t, cfg.Dataset.HydrateOnStart)
	assert.True(t, cfg.CheckInvariants)
	assert.Equal(t, "https://cdn.example/data.json", cfg.DatasetURL())
}

func TestLoad_DatasetDelayClamped(t *testing.T) {
	t.Setenv("KANBAN_DATASET_DELAY", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MaxDatasetDelay, cfg.Dataset.Delay)
}

// ---------------------------------------------------------------------------
// DSN() output format
// ---------------------------------------------------------------------------

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "default dev values",
			cfg: DatabaseConfig{
				Host: "localhost", Port: 5432, User: "kanban",
				Password: "", DBName: "kanban", SSLMode: "disable",
			},
			want: "host=localhost port=5432 user=kanban password= dbname=kanban sslmode=disable",
		},
		{
			name: "special characters in password",
			cfg: DatabaseConfig{
				Host: "h", Port: 1, User: "u",
				Password: "p=a&b c", DBName: "d", SSLMode: "s",
			},
			want: "host=h port=1 user=u password=p=a&b c dbname=d sslmode=s",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.DSN())
		})
	}
}

// ---------------------------------------------------------------------------
// DatasetURL()
// ---------------------------------------------------------------------------

func TestConfig_DatasetURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		url  string
		want string
	}{
		{addr: ":8080", url: "/data.json", want: "http://localhost:8080/data.json"},
		{addr: "0.0.0.0:80", url: "/data.json", want: "http://localhost:80/data.json"},
		{addr: "10.0.0.5:3000", url: "/api/seed", want: "http://10.0.0.5:3000/api/seed"},
		{addr: "[::]:8080", url: "/data.json", want: "http://localhost:8080/data.json"},
		{addr: ":8080", url: "http://remote/data.json", want: "http://remote/data.json"},
	}

	for _, tc := range tests {
		t.Run(tc.addr+tc.url, func(t *testing.T) {
			t.Parallel()
			c := &Config{Server: ServerConfig{Addr: tc.addr}, Dataset: DatasetConfig{URL: tc.url}}
			assert.Equal(t, tc.want, c.DatasetURL())
		})
	}
}

// ---------------------------------------------------------------------------
// validate() direct tests
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	// validBase returns a Config that passes validation.
	validBase := func() *Config {
		return &Config{
			Server: ServerConfig{
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			},
			RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
			Storage:   StorageConfig{Backend: BackendMemory, Key: "k"},
			Database:  DatabaseConfig{Port: 5432, MaxConns: 1},
			Dataset:   DatasetConfig{FetchTimeout: time.Second},
			PubSub:    PubSubLocal,
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validBase().validate())
	})

	t.Run("empty storage key fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Storage.Key = ""
		assert.ErrorContains(t, c.validate(), "KANBAN_STORAGE_KEY")
	})

	t.Run("every backend passes", func(t *testing.T) {
		t.Parallel()
		for _, b := range []string{BackendFile, BackendSQLite, BackendPostgres, BackendRedis, BackendMemory} {
			c := validBase()
			c.Storage.Backend = b
			assert.NoError(t, c.validate(), b)
		}
	})

	t.Run("port 65536 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 65536
		assert.ErrorContains(t, c.validate(), "KANBAN_DB_PORT")
	})

	t.Run("burst 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.RateLimit.Burst = 0
		assert.ErrorContains(t, c.validate(), "KANBAN_RATE_LIMIT_BURST")
	})

	t.Run("delay at bound is kept", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Dataset.Delay = MaxDatasetDelay
		require.NoError(t, c.validate())
		assert.Equal(t, MaxDatasetDelay, c.Dataset.Delay)
	})

	t.Run("WriteTimeout negative fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Server.WriteTimeout = -time.Second
		assert.ErrorContains(t, c.validate(), "KANBAN_SERVER_WRITE_TIMEOUT")
	})
}

// ---------------------------------------------------------------------------
// Test helper
// ---------------------------------------------------------------------------

func strPtr(s string) *string {
	return &s
}
