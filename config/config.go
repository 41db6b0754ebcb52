package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS  = "" // e.g. "example.com,example2.com"
	MYSQL_DSN    = "" // MySQL will be used if this is set
	SQLITE_FILE  = "attendance.db"
	BIND_ADDRESS = "0.0.0.0:8080"
	DEBUG_MODE   = true

	// Face recognition
	FACE_MODELS_DIR = "models" // dlib model files for go-face
	GALLERY_DIR     = "ImagesAttendance"
	FACE_CONFIDENCE = 0.9  // minimum detector confidence for a box to count
	MATCH_THRESHOLD = 0.60 // minimum cosine similarity to accept an identity
	FACE_SIZE       = 224  // square input size for the embedding model

	// Duplicate identity names across class folders: last-write-wins by
	// default; set to true to fail the gallery scan instead
	GALLERY_STRICT_NAMES = false

	// Attendance
	CSV_FILE         = "Attendance.csv"
	EXPORT_DIR       = "exports"
	EXPORT_HOUR      = 17
	EXPORT_MINUTE    = 0
	EXPORT_S3_BUCKET = "" // if set, daily exports are also uploaded to S3
	EXPORT_S3_REGION = "us-east-1"

	// Pipeline
	FRAME_QUEUE_SIZE = 5

	// Camera capture, handed to ffmpeg as -f CAMERA_FORMAT -i CAMERA_INPUT
	CAMERA_INPUT  = "/dev/video0"
	CAMERA_FORMAT = "v4l2"

	// Dashboard credential gate. A single account, seeded at startup.
	ADMIN_USERNAME = "admin"
	ADMIN_PASSWORD = ""
	SESSION_KEY    = "change me in production"
)

func init() {
	// Optional .env file; real env vars win
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("FACE_MODELS_DIR", &FACE_MODELS_DIR)
	readEnvString("GALLERY_DIR", &GALLERY_DIR)
	readEnvFloat("FACE_CONFIDENCE", &FACE_CONFIDENCE)
	readEnvFloat("MATCH_THRESHOLD", &MATCH_THRESHOLD)
	readEnvInt("FACE_SIZE", &FACE_SIZE)
	readEnvBool("GALLERY_STRICT_NAMES", &GALLERY_STRICT_NAMES)
	readEnvString("CSV_FILE", &CSV_FILE)
	readEnvString("EXPORT_DIR", &EXPORT_DIR)
	readEnvInt("EXPORT_HOUR", &EXPORT_HOUR)
	readEnvInt("EXPORT_MINUTE", &EXPORT_MINUTE)
	readEnvString("EXPORT_S3_BUCKET", &EXPORT_S3_BUCKET)
	readEnvString("EXPORT_S3_REGION", &EXPORT_S3_REGION)
	readEnvInt("FRAME_QUEUE_SIZE", &FRAME_QUEUE_SIZE)
	readEnvString("CAMERA_INPUT", &CAMERA_INPUT)
	readEnvString("CAMERA_FORMAT", &CAMERA_FORMAT)
	readEnvString("ADMIN_USERNAME", &ADMIN_USERNAME)
	readEnvString("ADMIN_PASSWORD", &ADMIN_PASSWORD)
	readEnvString("SESSION_KEY", &SESSION_KEY)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
