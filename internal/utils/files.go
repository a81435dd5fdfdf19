package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// ExpandPaths resolves glob patterns and literal paths, deduplicated and sorted.
func ExpandPaths(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// UniquePath returns dir/base+ext, or dir/base__N+ext with the smallest N >= 2
// that does not exist yet.
func UniquePath(dir, base, ext string) string {
	out := filepath.Join(dir, base+ext)
	if _, err := os.Stat(out); os.IsNotExist(err) {
		return out
	}
	for i := 2; ; i++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, i, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}
