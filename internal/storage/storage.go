// Package storage writes captured enrollment photos to the local filesystem,
// one directory per student with one JPEG per pose.
package storage

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

const jpegQuality = 90

// Store saves enrollment photos under a base directory.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// StudentDir returns the directory holding a student's photos.
func (s *Store) StudentDir(studentID string) string {
	return filepath.Join(s.baseDir, studentID)
}

// CreateStudentDir makes the student's photo directory, parents included.
func (s *Store) CreateStudentDir(studentID string) error {
	if err := os.MkdirAll(s.StudentDir(studentID), 0o755); err != nil {
		return fmt.Errorf("create student dir: %w", err)
	}
	return nil
}

// SaveImage writes img as <base>/<studentID>/<pose>.jpg and returns the path.
func (s *Store) SaveImage(studentID string, pose domain.Pose, img image.Image) (string, error) {
	path := filepath.Join(s.StudentDir(studentID), string(pose)+".jpg")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}

// RemoveStudentDir deletes a student's photo directory and everything in it.
// Used when a student is deleted.
func (s *Store) RemoveStudentDir(studentID string) error {
	if err := os.RemoveAll(s.StudentDir(studentID)); err != nil {
		return fmt.Errorf("remove student dir: %w", err)
	}
	return nil
}
