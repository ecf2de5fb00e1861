package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDirFiltersAndFills(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "TinyLlama-1.1B.Q4_K_M.gguf")
	touch(t, dir, "mistral-7b-f16.gguf")
	touch(t, dir, "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "sub.gguf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d: %+v", len(models), models)
	}
	byID := map[string]int{}
	for i, m := range models {
		byID[m.ID] = i
		if !filepath.IsAbs(m.Path) {
			t.Fatalf("path not absolute: %s", m.Path)
		}
	}
	tl := models[byID["TinyLlama-1.1B.Q4_K_M.gguf"]]
	if tl.Quant != "Q4_K_M" || tl.Family != "tinyllama" {
		t.Fatalf("tinyllama metadata: quant=%q family=%q", tl.Quant, tl.Family)
	}
	ms := models[byID["mistral-7b-f16.gguf"]]
	if ms.Quant != "F16" || ms.Family != "mistral" {
		t.Fatalf("mistral metadata: quant=%q family=%q", ms.Quant, ms.Family)
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestGuessQuant(t *testing.T) {
	cases := map[string]string{
		"model.Q4_K_M.gguf": "Q4_K_M",
		"model-q8_0.gguf":   "Q8_0",
		"model.IQ2_XS.gguf": "IQ2_XS",
		"model-bf16.gguf":   "BF16",
		"model.gguf":        "",
		"quiet-model.gguf":  "",
	}
	for in, want := range cases {
		if got := guessQuant(in); got != want {
			t.Fatalf("guessQuant(%q) = %q, want %q", in, got, want)
		}
	}
}
