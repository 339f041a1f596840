package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type AccessConfig struct {
	Key               string        `yaml:"key" validate:"required|minLen:4"`
	AdminPasswordHash string        `yaml:"adminPasswordHash" validate:"required|startsWith:$2"`
	TokenSecret       string        `yaml:"tokenSecret" validate:"required|minLen:16"`
	TokenTTL          time.Duration `yaml:"tokenTTL"`
}

type VoterConfig struct {
	CookieName   string `yaml:"cookieName"`
	CookieMaxAge int    `yaml:"cookieMaxAge"`
}

type PollConfig struct {
	Theme                string `yaml:"theme"`
	ExpectedParticipants int    `yaml:"expectedParticipants" validate:"min:0"`
	MaxCommentLength     int    `yaml:"maxCommentLength" validate:"min:0"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Access    AccessConfig  `yaml:"access"`
	Voter     VoterConfig   `yaml:"voter"`
	Poll      PollConfig    `yaml:"poll"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Archive   ArchiveConfig `yaml:"archive"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
