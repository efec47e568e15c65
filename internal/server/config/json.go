package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/videotube/internal/flagx"
	"github.com/dmitrijs2005/videotube/internal/timex"
)

// JSONConfig is an intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both string values
// such as "15m" and integer nanoseconds. After unmarshalling, the fields are
// copied into the runtime Config.
type JSONConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	RequestTimeout               timex.Duration `json:"request_timeout"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no file is given, nothing
// is loaded. An unreadable or invalid file panics: the process cannot run
// with half-applied configuration.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigPath()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.AccessTokenSecret = c.AccessTokenSecret
	config.RefreshTokenSecret = c.RefreshTokenSecret
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
