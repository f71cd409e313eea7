// Package config holds the process-wide configuration of the analysis
// tools: model tables, model directory overrides, and telemetry settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment overrides for the model directories.
const (
	AnalysisModelsDirEnv = "MLX_LLM_MODELS_DIR"
	WhisperModelsDirEnv  = "MLX_WHISPER_DIR"
)

// Config is the full tool configuration.
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Whisper   WhisperConfig   `yaml:"whisper"`
	Accuracy  AccuracyConfig  `yaml:"accuracy"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AnalysisConfig maps analysis model names to backing identifiers.
type AnalysisConfig struct {
	Models       map[string]string `yaml:"models"`
	DefaultModel string            `yaml:"default_model"`
	ModelsDir    string            `yaml:"models_dir"`
}

// WhisperConfig maps transcription model names to model subdirectories.
type WhisperConfig struct {
	Models    map[string]string `yaml:"models"`
	ModelsDir string            `yaml:"models_dir"`
}

// AccuracyConfig locates the quantization-gate artifacts.
type AccuracyConfig struct {
	ModelDir     string  `yaml:"model_dir"`
	FP32File     string  `yaml:"fp32_file"`
	INT8File     string  `yaml:"int8_file"`
	VocabFile    string  `yaml:"vocab_file"`
	Threshold    float64 `yaml:"threshold"`
	SeqLen       int     `yaml:"seq_len"`
	EmbeddingDim int     `yaml:"embedding_dim"`
}

// TelemetryConfig controls the OTLP metrics exporter.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Load reads configuration from a YAML file. A missing file yields the
// default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Analysis.Models == nil {
		// 4-bit quantized variants for local inference speed
		cfg.Analysis.Models = map[string]string{
			"qwen2.5-7b":  "mlx-community/Qwen2.5-7B-Instruct-4bit",
			"qwen2.5-14b": "mlx-community/Qwen2.5-14B-Instruct-4bit",
			"qwen2.5-32b": "mlx-community/Qwen2.5-32B-Instruct-4bit",
		}
	}
	if cfg.Analysis.DefaultModel == "" {
		cfg.Analysis.DefaultModel = "qwen2.5-7b"
	}
	if cfg.Analysis.ModelsDir == "" {
		cfg.Analysis.ModelsDir = "~/mlx-models"
	}

	if cfg.Whisper.Models == nil {
		// large-v3 intentionally absent: too big for live transcription
		cfg.Whisper.Models = map[string]string{
			"german-turbo": "whisper-large-v3-turbo-german-f16",
		}
	}
	if cfg.Whisper.ModelsDir == "" {
		cfg.Whisper.ModelsDir = "~/mlx-whisper"
	}

	if cfg.Accuracy.ModelDir == "" {
		cfg.Accuracy.ModelDir = "public/models/onnx-models/paraphrase-multilingual-MiniLM-L12-v2-onnx"
	}
	if cfg.Accuracy.FP32File == "" {
		cfg.Accuracy.FP32File = "model_fp32_backup.onnx"
	}
	if cfg.Accuracy.INT8File == "" {
		cfg.Accuracy.INT8File = "model_quantized.onnx"
	}
	if cfg.Accuracy.VocabFile == "" {
		cfg.Accuracy.VocabFile = "vocab.txt"
	}
	if cfg.Accuracy.Threshold == 0 {
		cfg.Accuracy.Threshold = 0.98
	}
	if cfg.Accuracy.SeqLen == 0 {
		cfg.Accuracy.SeqLen = 256
	}
	if cfg.Accuracy.EmbeddingDim == 0 {
		cfg.Accuracy.EmbeddingDim = 384
	}
}

// ResolveModel maps an analysis model name to its backing identifier.
func (c *AnalysisConfig) ResolveModel(name string) (string, error) {
	if name == "" {
		name = c.DefaultModel
	}
	id, ok := c.Models[name]
	if !ok {
		return "", fmt.Errorf("unknown model: %s. Available: %s", name, strings.Join(modelNames(c.Models), ", "))
	}
	return id, nil
}

// ResolveModelsDir returns the analysis models directory, honoring the
// environment override and expanding a leading tilde.
func (c *AnalysisConfig) ResolveModelsDir() string {
	if env := os.Getenv(AnalysisModelsDirEnv); env != "" {
		return expandTilde(env)
	}
	return expandTilde(c.ModelsDir)
}

// ResolveModelPath maps a whisper model name to its full directory path,
// honoring the environment override.
func (c *WhisperConfig) ResolveModelPath(name string) (string, error) {
	subdir, ok := c.Models[name]
	if !ok {
		return "", fmt.Errorf("unknown model: %s. Available: %s", name, strings.Join(modelNames(c.Models), ", "))
	}
	dir := c.ModelsDir
	if env := os.Getenv(WhisperModelsDirEnv); env != "" {
		dir = env
	}
	return filepath.Join(expandTilde(dir), subdir), nil
}

func modelNames(models map[string]string) []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
