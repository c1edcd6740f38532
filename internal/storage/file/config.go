package file

import "os"

// Config holds file storage settings
type Config struct {
	// Dir is the directory holding one "<username>.hash" file per user
	Dir string `yaml:"dir"`

	FileMode os.FileMode `yaml:"-"`
	DirMode  os.FileMode `yaml:"-"`
}

// DefaultConfig restricts records to the serving process's user
func DefaultConfig() Config {
	return Config{
		Dir:      "data/users",
		FileMode: 0o600,
		DirMode:  0o700,
	}
}
