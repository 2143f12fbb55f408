package x

import (
	"encoding/json"
	"log/slog"
	"os"
)

const (
	consumerKeyEnv       = "X_CONSUMER_KEY"
	consumerSecretEnv    = "X_CONSUMER_SECRET"
	accessTokenEnv       = "X_ACCESS_TOKEN"
	accessTokenSecretEnv = "X_ACCESS_TOKEN_SECRET"
)

// Credentials holds the four OAuth1 secrets for the X API. Any of them
// missing forces the Poster into simulation mode.
type Credentials struct {
	ConsumerKey       string `json:"consumer_key"`
	ConsumerSecret    string `json:"consumer_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
}

// Complete reports whether all four secrets are present.
func (c Credentials) Complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

// LoadCredentials reads the JSON credentials file at path, falling back to
// environment variables. An unreadable or corrupt file is logged and treated
// as absent, never fatal.
func LoadCredentials(path string, logger *slog.Logger) Credentials {
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			var creds Credentials
			if jsonErr := json.Unmarshal(raw, &creds); jsonErr != nil {
				logger.Warn("corrupt credentials file, falling back to environment", "path", path, "error", jsonErr)
			} else {
				logger.Info("loaded X API credentials", "path", path)
				return creds
			}
		case !os.IsNotExist(err):
			logger.Warn("cannot read credentials file, falling back to environment", "path", path, "error", err)
		}
	}

	return Credentials{
		ConsumerKey:       os.Getenv(consumerKeyEnv),
		ConsumerSecret:    os.Getenv(consumerSecretEnv),
		AccessToken:       os.Getenv(accessTokenEnv),
		AccessTokenSecret: os.Getenv(accessTokenSecretEnv),
	}
}
