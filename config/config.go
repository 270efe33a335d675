package config

import "os"

type Config struct {
	ServerPort        string
	TesseractDataPath string
	AliasConfigPath   string
	MaxFileSize       int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	aliasConfigPath := os.Getenv("ALIAS_CONFIG_PATH")
	if aliasConfigPath == "" {
		aliasConfigPath = "aliases.json"
	}

	return &Config{
		ServerPort:        serverPort,
		TesseractDataPath: tesseractDataPath,
		AliasConfigPath:   aliasConfigPath,
		MaxFileSize:       10 * 1024 * 1024, // 10 MB
	}
}
