// Package config loads readmegen application configuration from YAML files.
// A local readmegen.yaml in the working directory overlays the global
// configuration in the user's home directory; CLI flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/okGus/readme-generation/internal/utils"
)

const (
	// ConfigFileName is the name of the per-project configuration file.
	ConfigFileName = "readmegen.yaml"
	// GlobalConfigDirectoryName is the directory under the user home that holds
	// the global configuration file.
	GlobalConfigDirectoryName = ".readmegen"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds defaults for the generate and scan commands.
type ApplicationConfiguration struct {
	Generate GenerateConfiguration `mapstructure:"generate"`
}

// GenerateConfiguration defines options for README generation.
type GenerateConfiguration struct {
	Output   string               `mapstructure:"output"`
	Copy     *bool                `mapstructure:"copy"`
	Tokens   TokenConfiguration   `mapstructure:"tokens"`
	Prompt   PromptConfiguration  `mapstructure:"prompt"`
	Backends BackendConfiguration `mapstructure:"backends"`
	Paths    PathConfiguration    `mapstructure:"paths"`
}

// TokenConfiguration controls prompt token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PromptConfiguration bounds the assembled prompt.
type PromptConfiguration struct {
	MaxBytes *int64 `mapstructure:"max_bytes"`
}

// BackendConfiguration overrides model identifiers and local-server parameters.
type BackendConfiguration struct {
	OpenAIModel   string `mapstructure:"openai_model"`
	GroqModel     string `mapstructure:"groq_model"`
	GeminiModel   string `mapstructure:"gemini_model"`
	OllamaModel   string `mapstructure:"ollama_model"`
	OllamaHost    string `mapstructure:"ollama_host"`
	ContextWindow *int   `mapstructure:"context_window"`
}

// PathConfiguration configures exclusion rules for the directory scan.
type PathConfiguration struct {
	Exclude []string `mapstructure:"exclude"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Generate.Paths.Exclude = utils.DeduplicatePatterns(merged.Generate.Paths.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Generate = result.Generate.merge(override.Generate)
	return result
}

func (config GenerateConfiguration) merge(override GenerateConfiguration) GenerateConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Prompt = result.Prompt.merge(override.Prompt)
	result.Backends = result.Backends.merge(override.Backends)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config PromptConfiguration) merge(override PromptConfiguration) PromptConfiguration {
	result := config
	if override.MaxBytes != nil {
		result.MaxBytes = cloneInt64(override.MaxBytes)
	}
	return result
}

func (config BackendConfiguration) merge(override BackendConfiguration) BackendConfiguration {
	result := config
	if override.OpenAIModel != "" {
		result.OpenAIModel = override.OpenAIModel
	}
	if override.GroqModel != "" {
		result.GroqModel = override.GroqModel
	}
	if override.GeminiModel != "" {
		result.GeminiModel = override.GeminiModel
	}
	if override.OllamaModel != "" {
		result.OllamaModel = override.OllamaModel
	}
	if override.OllamaHost != "" {
		result.OllamaHost = override.OllamaHost
	}
	if override.ContextWindow != nil {
		result.ContextWindow = cloneInt(override.ContextWindow)
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
