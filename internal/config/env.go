package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
)

// layeredEnv prefers the real environment over values read from a dotenv file
type layeredEnv struct {
	lookup   func(string) (string, bool)
	fallback map[string]string
}

func (e layeredEnv) get(key string) (string, bool) {
	if v, ok := e.lookup(key); ok && v != "" {
		return v, true
	}
	v, ok := e.fallback[key]
	return v, ok && v != ""
}

// first returns the value of the first key that is set
func (e layeredEnv) first(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := e.get(k); ok {
			return v, true
		}
	}
	return "", false
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) applyEnv(env layeredEnv) error {
	setString(env, &c.Server.Host, "DRIVECREDS_HOST")
	if err := setInt(env, &c.Server.Port, "DRIVECREDS_PORT", "PORT"); err != nil {
		return err
	}

	setString(env, &c.Log.Level, "DRIVECREDS_LOG_LEVEL")
	setString(env, &c.Log.Format, "DRIVECREDS_LOG_FORMAT")

	setString(env, &c.Storage.Type, "DRIVECREDS_STORAGE_TYPE", "STORAGE_TYPE")
	setString(env, &c.Storage.File.Dir, "DRIVECREDS_DATA_DIR")
	setString(env, &c.Storage.Redis.URL, "DRIVECREDS_REDIS_URL", "REDIS_URL")
	setString(env, &c.Storage.Postgres.DSN, "DRIVECREDS_POSTGRES_DSN", "DATABASE_URL")
	setString(env, &c.Storage.S3.Bucket, "DRIVECREDS_S3_BUCKET")
	setString(env, &c.Storage.S3.Region, "DRIVECREDS_S3_REGION")
	setString(env, &c.Storage.S3.Endpoint, "DRIVECREDS_S3_ENDPOINT")
	setString(env, &c.Storage.S3.Prefix, "DRIVECREDS_S3_PREFIX")
	setString(env, &c.Storage.S3.AccessKeyID, "DRIVECREDS_S3_ACCESS_KEY_ID")
	setString(env, &c.Storage.S3.SecretAccessKey, "DRIVECREDS_S3_SECRET_ACCESS_KEY")

	setString(env, &c.Hasher.Scheme, "DRIVECREDS_HASH_SCHEME")
	if err := setInt(env, &c.Hasher.BcryptCost, "DRIVECREDS_BCRYPT_COST"); err != nil {
		return err
	}
	return setInt(env, &c.Hasher.SHA512Rounds, "DRIVECREDS_SHA512_ROUNDS")
}

func setString(env layeredEnv, dst *string, keys ...string) {
	if v, ok := env.first(keys...); ok {
		*dst = v
	}
}

func setInt(env layeredEnv, dst *int, keys ...string) error {
	v, ok := env.first(keys...)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid integer for %s: %q", keys[0], v)
	}
	*dst = n
	return nil
}
