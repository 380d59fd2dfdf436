package config // package config loads application configuration from environment variables

import (
    "errors"
    "io/fs"
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
}

// LoadEnv reads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set.  Missing
// files are skipped so that production deployments can rely on the real
// environment only.  Without arguments ".env" is tried.
func LoadEnv(files ...string) error {
    if len(files) == 0 {
        files = []string{".env"}
    }
    for _, f := range files {
        if err := godotenv.Load(f); err != nil {
            if errors.Is(err, fs.ErrNotExist) {
                continue
            }
            return err
        }
    }
    return nil
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:            envStr("APP_ENV", "dev"),
        Port:           envStr("APP_PORT", "8080"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         envStr("DB_PORT", "3306"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 15),
        RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 30),
        BcryptCost:     mustInt("BCRYPT_COST"),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatal().Str("key", key).Msg("missing required env var")
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatal().Str("key", key).Str("value", s).Msg("invalid int")
    }
    return n
}
