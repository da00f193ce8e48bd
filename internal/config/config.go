package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

const badgerDb = "badger"

type Config struct {
	Datadir       string `mapstructure:"DATADIR" envDefault:"" envInfo:"Data directory for the swap store; empty = in-memory"`
	DbType        string `mapstructure:"DB_TYPE" envDefault:"badger" envInfo:"Database backend: badger"`
	HTTPPort      uint32 `mapstructure:"HTTP_PORT" envDefault:"7100" envInfo:"HTTP server port"`
	LogLevel      uint32 `mapstructure:"LOG_LEVEL" envDefault:"4" envInfo:"Log verbosity (higher = more verbose)"`
	LedgerURL     string `mapstructure:"LEDGER_URL" envDefault:"http://localhost:9100" envInfo:"Ledger transfer service endpoint"`
	LedgerTimeout uint32 `mapstructure:"LEDGER_TIMEOUT" envDefault:"30" envInfo:"Ledger transfer timeout in seconds"`
	SweepInterval uint32 `mapstructure:"SWEEP_INTERVAL" envDefault:"60" envInfo:"Expiry sweep interval in seconds (0 disables)"`
	CallerHeader  string `mapstructure:"CALLER_HEADER" envDefault:"X-Chiave-Caller" envInfo:"Header carrying the authenticated caller identity"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("CHIAVE")
	v.AutomaticEnv()

	if err := setDefaultConfig(v); err != nil {
		return nil, fmt.Errorf("error setting default config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %v", err)
	}

	if err := config.initDb(); err != nil {
		return nil, fmt.Errorf("error initializing data directory: %w", err)
	}

	return &config, nil
}

func (c *Config) initDb() error {
	supportedDbType := map[string]struct{}{
		badgerDb: {},
	}

	if _, ok := supportedDbType[c.DbType]; !ok {
		return fmt.Errorf("unsupported db type: %s", c.DbType)
	}

	if len(c.Datadir) > 0 {
		c.Datadir = cleanAndExpandPath(c.Datadir)
		if err := makeDirectoryIfNotExists(c.Datadir); err != nil {
			return err
		}
	}

	return nil
}

func setDefaultConfig(v *viper.Viper) error {
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := f.Tag.Get("mapstructure")
		def := f.Tag.Get("envDefault")
		if def != "" {
			v.SetDefault(key, def)
		}
		err := v.BindEnv(key)
		if err != nil {
			return fmt.Errorf("error binding env variable for key %s: %w", key, err)
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	return filepath.Clean(os.ExpandEnv(path))
}
