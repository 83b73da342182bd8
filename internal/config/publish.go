package config

// PublishConfig describes the optional S3-compatible upload target.
type PublishConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Enabled reports whether enough is configured to upload.
func (c PublishConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

func loadPublish() PublishConfig {
	return PublishConfig{
		Endpoint:  envOrDefault(envPublishEndpoint, ""),
		AccessKey: envOrDefault(envPublishAccessKey, ""),
		SecretKey: envOrDefault(envPublishSecretKey, ""),
		Bucket:    envOrDefault(envPublishBucket, ""),
		Prefix:    envOrDefault(envPublishPrefix, ""),
		UseSSL:    boolEnvOrDefault(envPublishUseSSL, true),
	}
}
