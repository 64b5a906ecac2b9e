package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfigType is returned when NewViperFromBytes gets an empty format.
var ErrConfigType = errors.New("config: config type is required")

// Viper implements Config on top of spf13/viper.
//
// Values from the environment override the file: "database.url" is read from
// DATABASE_URL when set.
type Viper struct {
	v *viper.Viper
}

// Option customizes NewViper.
type Option func(*options)

type options struct {
	envFiles []string
	watch    bool
}

// WithEnvFiles loads the given dotenv files before reading the config file.
// Missing files are skipped.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = append(o.envFiles, files...) }
}

// WithoutWatch disables hot reload on file change.
func WithoutWatch() Option {
	return func(o *options) { o.watch = false }
}

// NewViper reads the file at pathFile; its type is taken from the extension.
func NewViper(pathFile string, opts ...Option) (*Viper, error) {
	o := options{envFiles: []string{".env"}, watch: true}
	for _, opt := range opts {
		opt(&o)
	}

	for _, f := range o.envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, err
		}
	}

	v := newEnvViper()
	base := path.Base(pathFile)
	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(base, path.Ext(base)))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	if o.watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			slog.Info("config file changed", "path", e.Name, "op", e.Op.String())
		})
		v.WatchConfig()
	}

	return &Viper{v: v}, nil
}

// NewViperFromBytes reads configuration of the given type ("yaml", "json") from data.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigType
	}

	v := newEnvViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (c *Viper) GetBool(key string) bool { return c.v.GetBool(key) }
func (c *Viper) GetString(key string) string { return c.v.GetString(key) }
func (c *Viper) GetInt(key string) int { return c.v.GetInt(key) }
func (c *Viper) GetInt32(key string) int32 { return c.v.GetInt32(key) }
func (c *Viper) GetInt64(key string) int64 { return c.v.GetInt64(key) }
func (c *Viper) GetUint(key string) uint { return c.v.GetUint(key) }
func (c *Viper) GetUint16(key string) uint16 { return uint16(c.v.GetUint(key)) }
func (c *Viper) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }
func (c *Viper) GetSecond(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Second
}

func (c *Viper) GetMinute(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Minute
}

func (c *Viper) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(c.v.GetString(key))
	if err != nil {
		return nil
	}
	return data
}

func (c *Viper) GetArray(key string) []string {
	raw := c.v.GetString(key)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Close is a no-op; the watcher goroutine ends with the process.
func (c *Viper) Close() error { return nil }
