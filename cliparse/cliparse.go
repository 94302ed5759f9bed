package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AdminPassword  string
	MatchThreshold int
	VoteWindow     time.Duration
	SessionTTL     time.Duration
}

// Defaults for the biometric gate. The threshold and window values are part
// of the verification contract with the client-side matcher.
const (
	DefaultPort           = 8400
	DefaultMatchThreshold = 20
	DefaultVoteWindow     = 75 * time.Hour
	DefaultSessionTTL     = 30 * time.Minute
)

// ParseFlags validates flags and applies environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var windowHours, ttlMinutes int

	fs := flag.NewFlagSet("biovote", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or sqlite file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Election policy knobs
	fs.IntVar(&cfg.MatchThreshold, "match-threshold", 0, "Minimum fingerprint match score (0-100)")
	fs.IntVar(&windowHours, "vote-window-hours", 0, "Hours a voter is ineligible after casting")
	fs.IntVar(&ttlMinutes, "session-ttl-minutes", 0, "Idle session lifetime in minutes")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin panel password (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "sqlite" {
			cfg.DatabaseURL = "biovote.db"
		} else {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	}

	if cfg.MatchThreshold == 0 {
		if v := os.Getenv("MATCH_THRESHOLD"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid MATCH_THRESHOLD env variable")
			}
			cfg.MatchThreshold = n
		} else {
			cfg.MatchThreshold = DefaultMatchThreshold
		}
	}
	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 100 {
		return Config{}, errors.New("match threshold must be between 0 and 100")
	}

	if windowHours == 0 {
		if v := os.Getenv("VOTE_WINDOW_HOURS"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid VOTE_WINDOW_HOURS env variable")
			}
			windowHours = n
		}
	}
	if windowHours < 0 {
		return Config{}, errors.New("vote window must not be negative")
	}
	if windowHours == 0 {
		cfg.VoteWindow = DefaultVoteWindow
	} else {
		cfg.VoteWindow = time.Duration(windowHours) * time.Hour
	}

	if ttlMinutes == 0 {
		if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL_MINUTES env variable")
			}
			ttlMinutes = n
		}
	}
	if ttlMinutes < 0 {
		return Config{}, errors.New("session TTL must not be negative")
	}
	if ttlMinutes == 0 {
		cfg.SessionTTL = DefaultSessionTTL
	} else {
		cfg.SessionTTL = time.Duration(ttlMinutes) * time.Minute
	}

	// Secrets - MUST be provided
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}

	return cfg, nil
}
