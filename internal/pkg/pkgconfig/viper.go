package pkgconfig

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when it is looked up in the environment,
// so "server.address.http" can be overridden by GOPROFILE_SERVER_ADDRESS_HTTP.
const EnvPrefix = "GOPROFILE"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper loads configuration from pathFile on top of defaults.
//
// The file type is inferred from the extension. A missing file is an error
// only when no defaults are given. Environment variables using EnvPrefix
// override both.
func NewViper(pathFile string, defaults map[string]any) (*Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(pathFile)
	if err := v.ReadInConfig(); err != nil {
		if len(defaults) == 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		slog.Warn("config file not found, using defaults", "path", pathFile)
	}

	return &Viper{v: v}, nil
}

// GetInt returns the value for key as int64.
func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetDuration returns the value for key parsed as a time.Duration ("200ms", "1m").
func (vc *Viper) GetDuration(key string) time.Duration {
	return vc.v.GetDuration(key)
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	return nil
}
