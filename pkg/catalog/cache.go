package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const CacheName = "hexpm.json"

func CachePath(root string) string {
	return filepath.Join(root, CacheName)
}

func SaveCache(path string, pkgs []Package) error {
	data, err := json.MarshalIndent(pkgs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// LoadCache reads a saved catalog. A missing file is not an
// error; ok reports whether the cache existed.
func LoadCache(
	path string,
) (pkgs []Package, ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf(
			"read catalog cache: %w", err,
		)
	}
	if err := json.Unmarshal(data, &pkgs); err != nil {
		return nil, false, fmt.Errorf(
			"parse catalog cache: %w", err,
		)
	}
	return pkgs, true, nil
}
