package s3store

// Config holds settings for an S3-compatible bucket (AWS S3, MinIO)
type Config struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`

	// Static credentials; when empty the default AWS credential chain is used
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`

	// UsePathStyle is required by most MinIO deployments
	UsePathStyle bool `yaml:"use_path_style"`
}

// DefaultConfig returns development defaults for a local MinIO
func DefaultConfig() Config {
	return Config{
		Bucket:       "drivecreds",
		Region:       "us-east-1",
		Prefix:       "users/",
		UsePathStyle: true,
	}
}
