package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_TIMEOUT", "")
	t.Setenv("COLLECTION_BACKEND", "")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "")
	t.Setenv("JWT_SECRET", "")

	LoadConfig()

	if Port != "8080" {
		t.Errorf("port: got %s, want 8080", Port)
	}
	if GeminiTimeout != 2*time.Minute {
		t.Errorf("gemini timeout: got %s, want 2m", GeminiTimeout)
	}
	if CollectionBackend != BackendFile {
		t.Errorf("collection backend: got %s, want %s", CollectionBackend, BackendFile)
	}
	if CollectionKey != "stylis_collection" {
		t.Errorf("collection key: got %s, want stylis_collection", CollectionKey)
	}
	if MaxUploadSize != 10<<20 {
		t.Errorf("max upload size: got %d, want %d", MaxUploadSize, 10<<20)
	}
	if JWTSecret == "" {
		t.Error("expected an ephemeral jwt secret to be generated")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_TIMEOUT", "45s")
	t.Setenv("GEMINI_IMAGE_MODEL", "custom-image-model")
	t.Setenv("COLLECTION_BACKEND", BackendRedis)
	t.Setenv("MAX_UPLOAD_SIZE_MB", "4")
	t.Setenv("JWT_SECRET", "fixed-secret")

	LoadConfig()

	if Port != "9090" {
		t.Errorf("port: got %s, want 9090", Port)
	}
	if GeminiTimeout != 45*time.Second {
		t.Errorf("gemini timeout: got %s, want 45s", GeminiTimeout)
	}
	if GeminiImageModel != "custom-image-model" {
		t.Errorf("image model: got %s, want custom-image-model", GeminiImageModel)
	}
	if CollectionBackend != BackendRedis {
		t.Errorf("collection backend: got %s, want %s", CollectionBackend, BackendRedis)
	}
	if MaxUploadSize != 4<<20 {
		t.Errorf("max upload size: got %d, want %d", MaxUploadSize, 4<<20)
	}
	if JWTSecret != "fixed-secret" {
		t.Errorf("jwt secret: got %s, want fixed-secret", JWTSecret)
	}
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("GEMINI_TIMEOUT", "soon")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "-3")

	LoadConfig()

	if GeminiTimeout != 2*time.Minute {
		t.Errorf("gemini timeout: got %s, want 2m", GeminiTimeout)
	}
	if MaxUploadSize != 10<<20 {
		t.Errorf("max upload size: got %d, want %d", MaxUploadSize, 10<<20)
	}
}
