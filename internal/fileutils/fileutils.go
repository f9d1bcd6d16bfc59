// Package fileutils provides common file operations used throughout the application.
// Every function works on an afero.Fs so that callers and tests can swap the
// operating system for an in-memory filesystem.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Permissions used for files and directories created by the application.
const (
	PermissionFile      os.FileMode = 0600
	PermissionDirectory os.FileMode = 0750
)

// FileExists checks if a file exists and is not a directory
func FileExists(fs afero.Fs, filePath string) bool {
	info, err := fs.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(fs afero.Fs, dirPath string) bool {
	ok, err := afero.DirExists(fs, dirPath)
	return err == nil && ok
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(fs afero.Fs, dirPath string) error {
	if dirPath == "" || dirPath == "." || DirectoryExists(fs, dirPath) {
		return nil
	}
	if err := fs.MkdirAll(dirPath, PermissionDirectory); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// WriteFileAtomic replaces filePath with data. The content is written to a
// temporary file in the same directory and renamed over the target, so a
// reader sees either the old or the new file, never a partial one.
func WriteFileAtomic(fs afero.Fs, filePath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filePath)
	if err := EnsureDirectoryExists(fs, dir); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := fs.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filePath, err)
	}
	committed = true
	return nil
}

// ListFilesWithExtension returns the files directly inside dirPath whose
// extension matches ext case-insensitively, sorted by name. Paths in exclude
// are left out; they are compared after filepath.Clean.
func ListFilesWithExtension(fs afero.Fs, dirPath, ext string, exclude ...string) ([]string, error) {
	if !DirectoryExists(fs, dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[filepath.Clean(e)] = true
	}

	entries, err := afero.ReadDir(fs, dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		path := filepath.Join(dirPath, entry.Name())
		if skip[filepath.Clean(path)] || skip[entry.Name()] {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
