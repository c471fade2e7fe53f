package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile  = "file"
	BackendMongo = "mongo"
	BackendS3    = "s3"
	BackendRedis = "redis"
)

var (
	AppEnv          string
	Port            string
	ShutdownTimeout time.Duration
	MaxUploadSize   int64

	GeminiAPIKey        string
	GeminiAnalysisModel string
	GeminiImageModel    string
	GeminiTimeout       time.Duration

	CollectionBackend string
	CollectionFile    string
	CollectionKey     string

	MongoURI      string
	DBName        string
	AWSRegion     string
	AWSBucketName string
	RedisHost     string
	RedisPassword string

	JWTSecret         string
	SendGridAPIKey    string
	SendGridFromEmail string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	AppEnv = getEnv("APP_ENV", "local")
	Port = getEnv("PORT", "8080")
	ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	MaxUploadSize = int64(getInt("MAX_UPLOAD_SIZE_MB", 10)) << 20

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	GeminiAnalysisModel = getEnv("GEMINI_ANALYSIS_MODEL", "gemini-3-flash-preview")
	GeminiImageModel = getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image")
	GeminiTimeout = getDuration("GEMINI_TIMEOUT", 2*time.Minute)

	CollectionBackend = getEnv("COLLECTION_BACKEND", BackendFile)
	CollectionFile = getEnv("COLLECTION_FILE", "stylis_collection.json")
	CollectionKey = getEnv("COLLECTION_KEY", "stylis_collection")

	MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017/")
	DBName = getEnv("DB_NAME", "stylis")
	AWSRegion = getEnv("AWS_REGION", "ap-south-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
	RedisHost = getEnv("REDIS_HOST", "localhost:6379")
	RedisPassword = os.Getenv("REDIS_PASSWORD")

	JWTSecret = os.Getenv("JWT_SECRET")
	if JWTSecret == "" {
		// Tokens only need to outlive the process, so a random key is enough.
		log.Println("JWT_SECRET not set, generating an ephemeral session signing key")
		JWTSecret = randomSecret()
	}

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	SendGridFromEmail = getEnv("SENDGRID_FROM_EMAIL", "no-reply@stylis.ai")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Invalid %s=%q, using %d", key, v, fallback)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid %s=%q, using %s", key, v, fallback)
	}
	return fallback
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b)
}
