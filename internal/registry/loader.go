package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"engined/pkg/types"
)

// LoadDir scans a directory for *.gguf files and builds a registry from
// filenames. ID is the full filename (including extension); Path is the
// absolute file path. Quant and Family are best-effort guesses from the name.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, types.Model{
			ID:     name,
			Name:   name,
			Path:   filepath.Join(abs, name),
			Quant:  guessQuant(name),
			Family: guessFamily(name),
		})
	}
	return models, nil
}

// quantRe matches llama.cpp quantization suffixes like Q4_K_M, Q8_0, IQ2_XS, F16.
var quantRe = regexp.MustCompile(`(?i)\b(i?q[0-9]+(?:_[a-z0-9]+)*|f16|f32|bf16)\b`)

func guessQuant(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// filenames separate fields with '.', '-' or '_'; normalize enough for
	// the word-boundary match
	norm := strings.NewReplacer(".", " ", "-", " ").Replace(base)
	if m := quantRe.FindString(norm); m != "" {
		return strings.ToUpper(m)
	}
	return ""
}

// known model families, matched case-insensitively against the filename.
var families = []string{"llama", "mistral", "mixtral", "phi", "qwen", "gemma", "tinyllama"}

func guessFamily(name string) string {
	lower := strings.ToLower(name)
	// more specific names first (tinyllama before llama)
	for i := len(families) - 1; i >= 0; i-- {
		if strings.Contains(lower, families[i]) {
			return families[i]
		}
	}
	return ""
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/llm
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
