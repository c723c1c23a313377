package config

import (
	"os"
	"strconv"
)

// Config holds every environment-tunable setting for the station.
type Config struct {
	MusicDir    string
	HTTPPort    string
	RawPort     string
	StationName string
	MaxClients  int
	YtdlpPath   string
	FfmpegPath  string
	SID         string
	WebDir      string
}

// Load reads Config from the environment, falling back to sensible
// defaults for local development.
func Load() *Config {
	return &Config{
		MusicDir:    getEnv("MUSIC_DIR", "./music"),
		HTTPPort:    getEnv("HTTP_PORT", "6912"),
		RawPort:     getEnv("RAW_PORT", "3615"),
		StationName: getEnv("STATION_NAME", "Kaizen Radio"),
		MaxClients:  getEnvAsInt("MAX_CLIENTS", 100),
		YtdlpPath:   getEnv("YTDLP_PATH", "/usr/bin/yt-dlp"),
		FfmpegPath:  getEnv("FFMPEG_PATH", "/usr/bin/ffmpeg"),
		SID:         getEnv("SID", ""),
		WebDir:      getEnv("WEB_DIR", "./web/dist"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultVal
}
