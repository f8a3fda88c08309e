// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"errors"
	"fmt"
	"time"

	validator "github.com/AccelByte/justice-input-validation-go"
	"github.com/caarlos0/env"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/AccelByte/hackathon-teambot/pkg/constants"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" envDocs:"logrus level: debug, info, warn, error"`

	DiscordToken   string `env:"DISCORD_TOKEN"    envDocs:"bot token, required by the run command"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID" envDocs:"guild where slash commands are registered (empty registers globally)"`
	DiscordAppID   string `env:"DISCORD_APP_ID"   envDocs:"application id used to register slash commands"`

	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"         envDocs:"sqlite or postgres"`
	Database     string `env:"DATABASE"      envDefault:"data/teambot.db" envDocs:"sqlite file path or postgres DSN"`

	AdminAddr  string `env:"ADMIN_ADDR"  envDefault:"127.0.0.1:9090" envDocs:"listen address for health, metrics and formation trigger endpoints"`
	AdminToken string `env:"ADMIN_TOKEN"                            envDocs:"bearer token required by the /formations endpoints; they answer 401 while it is empty"`
	ZipkinURL  string `env:"ZIPKIN_URL"                             envDocs:"zipkin collector endpoint; tracing is disabled when empty"`

	NotificationsPerSecond  float64       `env:"NOTIFICATIONS_PER_SECOND"  envDefault:"2"  envDocs:"direct message rate limit"`
	SuggestionSweepInterval time.Duration `env:"SUGGESTION_SWEEP_INTERVAL" envDefault:"1h" envDocs:"how often pending suggestions are checked for expiry"`

	Rules FormationRules
}

// FormationRules are the tunables of the team formation engine.
type FormationRules struct {
	MinTeamSize           int           `env:"MIN_TEAM_SIZE"           envDefault:"3"   envDocs:"smallest team the engine forms"             valid:"range(2|8)"`
	MaxTeamSize           int           `env:"MAX_TEAM_SIZE"           envDefault:"5"   envDocs:"largest team the engine forms"              valid:"range(2|8)"`
	MinCompatibilityScore float64       `env:"MIN_COMPATIBILITY_SCORE" envDefault:"55"  envDocs:"teams scoring below this are never selected" valid:"range(0|100)"`
	RegionBonus           float64       `env:"REGION_BONUS"            envDefault:"15"  envDocs:"bonus for pairs in the same known region"   valid:"range(0|100)"`
	MaxBucketSize         int           `env:"MAX_BUCKET_SIZE"         envDefault:"18"  envDocs:"buckets above this size are split in chunks" valid:"range(2|64)"`
	SuggestionTTL         time.Duration `env:"SUGGESTION_TTL"          envDefault:"72h" envDocs:"how long a participant has to answer a suggestion" valid:"-"`
}

var (
	ErrTeamSizeRange       = errors.New("min team size must be less than or equal to max team size")
	ErrBucketTooSmall      = errors.New("max bucket size must be greater than or equal to max team size")
	ErrSuggestionTTL       = errors.New("suggestion ttl must be positive")
	ErrTooManyCombinations = fmt.Errorf("max bucket size and team sizes would enumerate more than %d combinations per round",
		constants.MaxCombinationsPerChunk)
)

// DefaultRules returns the rules the event was run with.
func DefaultRules() FormationRules {
	return FormationRules{
		MinTeamSize:           constants.MinTeamSize,
		MaxTeamSize:           constants.MaxTeamSize,
		MinCompatibilityScore: constants.MinCompatibilityScore,
		RegionBonus:           constants.RegionBonus,
		MaxBucketSize:         constants.MaxBucketSize,
		SuggestionTTL:         constants.SuggestionTTL,
	}
}

func (r FormationRules) Validate() error {
	if _, err := validator.ValidateStruct(&r); err != nil {
		return err
	}
	if r.MinTeamSize > r.MaxTeamSize {
		return ErrTeamSizeRange
	}
	if r.MaxBucketSize < r.MaxTeamSize {
		return ErrBucketTooSmall
	}
	if r.SuggestionTTL <= 0 {
		return ErrSuggestionTTL
	}
	if r.CombinationsPerChunk() > constants.MaxCombinationsPerChunk {
		return ErrTooManyCombinations
	}
	return nil
}

// CombinationsPerChunk is how many teams the generator scores for a full
// chunk of MaxBucketSize participants.
func (r FormationRules) CombinationsPerChunk() int {
	total := 0
	for k := r.MinTeamSize; k <= min(r.MaxTeamSize, r.MaxBucketSize); k++ {
		total += combin.Binomial(r.MaxBucketSize, k)
	}
	return total
}

// Load parses the environment into a Config and validates the formation rules.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse environment variables: %w", err)
	}
	if err := env.Parse(&cfg.Rules); err != nil {
		return nil, fmt.Errorf("unable to parse formation rules: %w", err)
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid formation rules: %w", err)
	}
	return cfg, nil
}

// ConfigureLogger applies the configured level to the standard logrus logger.
func (c *Config) ConfigureLogger() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.WithField("level", c.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
}
