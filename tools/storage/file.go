package storage

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

type fileStorage struct {
	log logger.Logger
	cfg *config.Config
}

// FileOperationsI - local filesystem actions a pipeline run needs.
type FileOperationsI interface {
	CreateRunFolder(prefix string) (string, error)
	PickRandomAudio() (string, error)
	WriteCaption(path, content string) error
	EnsureExists(path string) error
}

func NewFileStorage(cfg *config.Config, log logger.Logger) FileOperationsI {
	return &fileStorage{
		cfg: cfg,
		log: log,
	}
}

// CreateRunFolder - creates {outputRoot}/{prefix}_{timestamp}/ for one
// pipeline run.
func (f *fileStorage) CreateRunFolder(prefix string) (string, error) {
	folderName := fmt.Sprintf("%s_%s", prefix, time.Now().Format("20060102_150405"))
	fullPath := filepath.Join(f.cfg.OutputDir, folderName)

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.log.Error("Error while creating the directory", logger.Error(err))
		return "", err
	}

	return fullPath, nil
}

// PickRandomAudio - returns a random audio track from the configured
// folder.
func (f *fileStorage) PickRandomAudio() (string, error) {
	entries, err := os.ReadDir(f.cfg.AudioFolder)
	if err != nil {
		return "", err
	}

	audioFiles := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".mp3", ".wav", ".m4a", ".aac":
			audioFiles = append(audioFiles, entry.Name())
		}
	}

	if len(audioFiles) == 0 {
		return "", fmt.Errorf("no audio files found in %s", f.cfg.AudioFolder)
	}

	picked := audioFiles[rand.Intn(len(audioFiles))]
	return filepath.Join(f.cfg.AudioFolder, picked), nil
}

func (f *fileStorage) WriteCaption(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func (f *fileStorage) EnsureExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("required file not found at %s: %w", path, err)
	}
	return nil
}
