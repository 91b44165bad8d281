package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/csomedia/internal/flagx"
	"github.com/dmitrijs2005/csomedia/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC   string         `json:"endpoint_addr_grpc"`
	MetricsAddr        string         `json:"metrics_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	StorageBackend     string         `json:"storage_backend"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	GCSCredentialsFile string         `json:"gcs_credentials_file"`
	GCSEndpoint        string         `json:"gcs_endpoint"`
	GCSSigningEmail    string         `json:"gcs_signing_email"`
	GCSSigningKey      string         `json:"gcs_signing_key"`
	PublicBaseURL      string         `json:"public_base_url"`
	SignedURLTTL       timex.Duration `json:"signed_url_ttl"`
	UploadURLTTL       timex.Duration `json:"upload_url_ttl"`
	MaxMessageBytes    int            `json:"max_message_bytes"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Keys absent from the file keep their current values. An unreadable or
// malformed file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		EndpointAddrGRPC:   config.EndpointAddrGRPC,
		MetricsAddr:        config.MetricsAddr,
		DatabaseDSN:        config.DatabaseDSN,
		SecretKey:          config.SecretKey,
		StorageBackend:     config.StorageBackend,
		S3AccessKey:        config.S3AccessKey,
		S3SecretKey:        config.S3SecretKey,
		S3Region:           config.S3Region,
		S3BaseEndpoint:     config.S3BaseEndpoint,
		GCSCredentialsFile: config.GCSCredentialsFile,
		GCSEndpoint:        config.GCSEndpoint,
		GCSSigningEmail:    config.GCSSigningEmail,
		GCSSigningKey:      config.GCSSigningKey,
		PublicBaseURL:      config.PublicBaseURL,
		SignedURLTTL:       timex.Duration{Duration: config.SignedURLTTL},
		UploadURLTTL:       timex.Duration{Duration: config.UploadURLTTL},
		MaxMessageBytes:    config.MaxMessageBytes,
		LogLevel:           config.LogLevel,
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.MetricsAddr = c.MetricsAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.StorageBackend = c.StorageBackend
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.GCSCredentialsFile = c.GCSCredentialsFile
	config.GCSEndpoint = c.GCSEndpoint
	config.GCSSigningEmail = c.GCSSigningEmail
	config.GCSSigningKey = c.GCSSigningKey
	config.PublicBaseURL = c.PublicBaseURL
	config.SignedURLTTL = c.SignedURLTTL.Duration
	config.UploadURLTTL = c.UploadURLTTL.Duration
	config.MaxMessageBytes = c.MaxMessageBytes
	config.LogLevel = c.LogLevel
}
