package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/factcheck/internal/worker"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetEnvPrefix("FACTCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := seedDefaults(v); err != nil {
		t.Fatalf("seedDefaults: %v", err)
	}
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Verifier.Backend != "huggingface" {
		t.Errorf("expected huggingface verifier, got %s", cfg.Verifier.Backend)
	}
	if cfg.HTTP.Timeout != 20*time.Second {
		t.Errorf("expected 20s timeout, got %v", cfg.HTTP.Timeout)
	}
	if len(cfg.Knowledge.EntityLabels) == 0 {
		t.Error("expected default entity labels")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FACTCHECK_VERIFIER_BACKEND", "llm")
	t.Setenv("FACTCHECK_HTTP_TIMEOUT", "5s")
	t.Setenv("FACTCHECK_LLM_API_KEY", "sk-test")
	t.Setenv("FACTCHECK_KNOWLEDGE_SENTENCES", "3")

	cfg, err := loadConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Verifier.Backend != "llm" {
		t.Errorf("expected llm verifier, got %s", cfg.Verifier.Backend)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Knowledge.Sentences != 3 {
		t.Errorf("expected 3 sentences, got %d", cfg.Knowledge.Sentences)
	}
}

func TestLoadConfig_FileOverridesAndValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "knowledge:\n  language: de\ncache:\n  backend: memcached\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := newTestViper(t)
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		t.Fatalf("MergeInConfig: %v", err)
	}

	if _, err := loadConfig(v); err == nil {
		t.Fatal("expected validation error for unknown cache backend")
	}

	v.Set("cache.backend", "layered")
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Knowledge.Language != "de" {
		t.Errorf("expected language from file, got %s", cfg.Knowledge.Language)
	}
	if cfg.Knowledge.Sentences != 2 {
		t.Errorf("expected default sentences to survive merge, got %d", cfg.Knowledge.Sentences)
	}
}

func TestLoadConfig_FileFormatFollowsExtension(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"config.toml", "[knowledge]\nlanguage = \"fr\"\n\n[http]\ntimeout = \"7s\"\n"},
		{"config.json", `{"knowledge": {"language": "fr"}, "http": {"timeout": "7s"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			v := newTestViper(t)
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				t.Fatalf("MergeInConfig: %v", err)
			}

			cfg, err := loadConfig(v)
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			if cfg.Knowledge.Language != "fr" {
				t.Errorf("expected language from file, got %s", cfg.Knowledge.Language)
			}
			if cfg.HTTP.Timeout != 7*time.Second {
				t.Errorf("expected 7s timeout from file, got %v", cfg.HTTP.Timeout)
			}
			if cfg.Verifier.Backend != "huggingface" {
				t.Errorf("expected default verifier to survive merge, got %s", cfg.Verifier.Backend)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("written config is not readable: %v", err)
	}
	if v.GetString("verifier.model") == "" {
		t.Error("expected verifier.model in written config")
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(file, []byte("Paris is in France."), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		path    string
		stdin   string
		max     int
		want    string
		wantErr bool
	}{
		{name: "argument", args: []string{"The sky is blue."}, max: 100, want: "The sky is blue."},
		{name: "file", path: file, max: 100, want: "Paris is in France."},
		{name: "stdin", stdin: "Water boils at 100 C.", max: 100, want: "Water boils at 100 C."},
		{name: "argument and file", args: []string{"x"}, path: file, max: 100, wantErr: true},
		{name: "empty", stdin: "   \n", max: 100, wantErr: true},
		{name: "too large", args: []string{strings.Repeat("a", 11)}, max: 10, wantErr: true},
		{name: "stdin too large", stdin: strings.Repeat("a", 50), max: 10, wantErr: true},
		{name: "missing file", path: filepath.Join(dir, "missing.txt"), max: 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(tt.args, tt.path, strings.NewReader(tt.stdin), tt.max)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportBaseName(t *testing.T) {
	tests := []struct {
		input worker.Input
		want  string
	}{
		{worker.Input{Index: 0, Value: "https://en.wikipedia.org/wiki/Paris"}, "001-en.wikipedia.org_wiki_Paris"},
		{worker.Input{Index: 9, Value: "/tmp/articles/my notes.txt"}, "010-my-notes"},
		{worker.Input{Index: 2, Value: "https://"}, "003-input"},
	}

	for _, tt := range tests {
		if got := reportBaseName(tt.input); got != tt.want {
			t.Errorf("reportBaseName(%q) = %q, want %q", tt.input.Value, got, tt.want)
		}
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	got := sanitizeFilename(strings.Repeat("x", 150))
	if len(got) != 100 {
		t.Errorf("expected 100 chars, got %d", len(got))
	}
}
