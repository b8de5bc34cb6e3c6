package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	ViewportWidth      float64 `envconfig:"VIEWPORT_WIDTH" default:"800"`
	ViewportHeight     float64 `envconfig:"VIEWPORT_HEIGHT" default:"600"`
	DefaultLineColor   string  `envconfig:"DEFAULT_LINE_COLOR" default:"#000000"`
	DefaultFillColor   string  `envconfig:"DEFAULT_FILL_COLOR" default:"#ffffff"`
	DefaultStrokeWidth float64 `envconfig:"DEFAULT_STROKE_WIDTH" default:"1"`

	ExportPadding float64 `envconfig:"EXPORT_PADDING" default:"20"`
	JPEGQuality   int     `envconfig:"JPEG_QUALITY" default:"92"`
	MaxSceneBytes int64   `envconfig:"MAX_SCENE_BYTES" default:"4194304"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginPatterns strips the scheme from each origin, the form websocket
// origin checks expect.
func (c *Config) OriginPatterns() []string {
	origins := c.Origins()
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		out = append(out, o)
	}
	return out
}
