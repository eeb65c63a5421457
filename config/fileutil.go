package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON stores v as indented JSON at path through WriteFileAtomic. what
// names the value in errors.
func WriteJSON(path, what string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return WriteFileAtomic(path, append(data, '\n'), 0644)
}

// WriteFileAtomic replaces path with data. The bytes go to a sibling temp
// file first, which is renamed into place once synced. Parent directories are
// created as needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath, err := writeTemp(dir, filepath.Base(path), data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// writeTemp writes data to a new temp file in dir and returns its name. The
// file is removed again on any failure.
func writeTemp(dir, base string, data []byte, perm os.FileMode) (name string, err error) {
	f, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name = f.Name()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close temp file: %w", cerr)
		}
		if err != nil {
			os.Remove(name)
		}
	}()

	if err = f.Chmod(perm); err != nil {
		return "", fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if _, err = f.Write(data); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync temp file: %w", err)
	}
	return name, nil
}
