package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores each namespace as <basePath>/<namespace>.json.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if not exists
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	return &LocalStorage{basePath: abs}, nil
}

func (s *LocalStorage) pathFor(namespace string) (string, error) {
	if namespace == "" || strings.ContainsAny(namespace, `/\`) || strings.HasPrefix(namespace, ".") {
		return "", fmt.Errorf("invalid namespace: %q", namespace)
	}
	fullPath := filepath.Join(s.basePath, filepath.Clean(namespace)+".json")

	// Ensure file is within basePath
	if !strings.HasPrefix(fullPath, s.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid namespace: %q", namespace)
	}
	return fullPath, nil
}

func (s *LocalStorage) Put(ctx context.Context, namespace string, doc any) error {
	fullPath, err := s.pathFor(namespace)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", namespace, err)
	}

	// Write to a temp file first so a crash never leaves a torn document.
	tmp, err := os.CreateTemp(s.basePath, namespace+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", namespace, err)
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, namespace string, dst any) error {
	fullPath, err := s.pathFor(namespace)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", namespace, err)
	}
	return nil
}

func (s *LocalStorage) Delete(ctx context.Context, namespace string) error {
	fullPath, err := s.pathFor(namespace)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, namespace string) (bool, error) {
	fullPath, err := s.pathFor(namespace)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
