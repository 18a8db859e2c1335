package config

import "os"

// Config carries everything read from the environment. Precedence: explicit
// env var > .env file (loaded by main) > default.
type Config struct {
	Port        string
	DatabaseDSN string
	Env         string

	// StoreBaseURL is where the editor-side commands find the invoice-store
	// API.
	StoreBaseURL string

	// Storage selects the object-storage backend: "cloudinary" or "s3".
	Storage           string
	CloudinaryBaseURL string
	CloudinaryCloud   string
	S3Region          string
	S3Bucket          string

	// ChromePath overrides the Chromium binary used for render capture.
	ChromePath string
}

func Load() Config {
	return Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "file:geninvoico.db"),
		Env:               getEnv("APP_ENV", "development"),
		StoreBaseURL:      getEnv("STORE_BASE_URL", "http://localhost:8080/api"),
		Storage:           getEnv("STORAGE_BACKEND", "cloudinary"),
		CloudinaryBaseURL: getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1"),
		CloudinaryCloud:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
		S3Region:          getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		ChromePath:        getEnv("CHROME_PATH", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
