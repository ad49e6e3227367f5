package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	StorageBucket           string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	TipServiceURL           string
	TipServiceKey           string
	LogLevel                string
	LogFile                 string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "pokerconnect"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		TipServiceURL:           getEnv("TIP_SERVICE_URL", ""),
		TipServiceKey:           getEnv("TIP_SERVICE_KEY", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFile:                 getEnv("LOG_FILE", "logs/pokerconnect.log"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
