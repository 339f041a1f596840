package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"livepoll/internal/structures"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultCookieName       = "voter_id"
	defaultCookieMaxAge     = 365 * 24 * 60 * 60
	defaultTokenTTL         = 12 * time.Hour
	defaultMaxCommentLength = 500
	defaultCacheTTL         = 2
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("voter.cookieName", defaultCookieName)
	v.SetDefault("voter.cookieMaxAge", defaultCookieMaxAge)
	v.SetDefault("access.tokenTTL", defaultTokenTTL)
	v.SetDefault("poll.maxCommentLength", defaultMaxCommentLength)
	v.SetDefault("cache.ttl", defaultCacheTTL)

	_ = v.BindEnv("logger.level", "LIVEPOLL_LOG_LEVEL")
	_ = v.BindEnv("webServer.port", "LIVEPOLL_PORT")
	_ = v.BindEnv("access.key", "LIVEPOLL_ACCESS_KEY")
	_ = v.BindEnv("access.adminPasswordHash", "LIVEPOLL_ADMIN_PASSWORD_HASH")
	_ = v.BindEnv("access.tokenSecret", "LIVEPOLL_TOKEN_SECRET")
	_ = v.BindEnv("poll.expectedParticipants", "LIVEPOLL_EXPECTED_PARTICIPANTS")
	_ = v.BindEnv("poll.theme", "LIVEPOLL_THEME")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "LivePoll"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
