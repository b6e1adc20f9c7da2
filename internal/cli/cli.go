// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/okGus/readme-generation/internal/config"
	"github.com/okGus/readme-generation/internal/llm"
	"github.com/okGus/readme-generation/internal/output"
	"github.com/okGus/readme-generation/internal/prompt"
	"github.com/okGus/readme-generation/internal/scan"
	"github.com/okGus/readme-generation/internal/services/clipboard"
	"github.com/okGus/readme-generation/internal/tokenizer"
	"github.com/okGus/readme-generation/internal/types"
	"github.com/okGus/readme-generation/internal/utils"
)

const (
	outputFlagName         = "output"
	outputFlagShorthand    = "o"
	openAIKeyFlagName      = "openai-api-key"
	groqKeyFlagName        = "groq-api-key"
	geminiKeyFlagName      = "gemini-api-key"
	exclusionFlagName      = "exclude"
	exclusionFlagShorthand = "e"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	maxBytesFlagName       = "max-bytes"
	copyFlagName           = "copy"
	configFileFlagName     = "config"
	globalFlagName         = "global"
	forceFlagName          = "force"
	versionFlagName        = "version"
	versionTemplate        = "readmegen version: %s\n"
	rootUse                = "readmegen"
	rootShortDescription   = "readmegen command line interface"
	rootLongDescription    = `readmegen generates a README.md for a project directory.
It scans the directory for source files, assembles them into a single prompt,
and sends the prompt to the first language model backend with credentials:
OpenAI, Groq, Gemini, or a local Ollama server when no API key is present.`
	versionFlagDescription   = "display application version"
	generateUse              = "generate [directory]"
	scanUse                  = "scan [directory]"
	defaultDirectory         = "."
	configUse                = "config"
	configInitUse            = "init"
	generateAlias            = "g"
	scanAlias                = "s"
	generateShortDescription = "generate a README for a directory (" + generateAlias + ")"
	scanShortDescription     = "print the assembled prompt without calling a backend (" + scanAlias + ")"
	configShortDescription   = "manage readmegen configuration"
	configInitShort          = "write a default configuration file"

	// generateLongDescription provides detailed help for the generate command.
	generateLongDescription = `Scan a project directory, build a prompt from its source files, and write the
generated README to disk. Credentials are read from flags first and the
OPENAI_API_KEY, GROQ_API_KEY, and GEMINI_API_KEY environment variables second;
without any key the local Ollama server is used.`
	// generateUsageExample demonstrates generate command usage.
	generateUsageExample = `  # Generate a README for the current project into README.md
  readmegen generate . -o README.md

  # Generate with exclusions, token reporting, and a clipboard copy
  readmegen generate ./service -e "*.sql" -e testdata --tokens --copy`

	// scanLongDescription provides detailed help for the scan command.
	scanLongDescription = `Print the exact prompt the generate command would send, without contacting any
backend. Useful for checking exclusion rules and prompt size.`
	// scanUsageExample demonstrates scan command usage.
	scanUsageExample = `  # Inspect the prompt for the current directory
  readmegen scan .

  # Check prompt size in tokens with extra exclusions
  readmegen scan ./service -e vendor --tokens`

	configLongDescription = `Manage the readmegen configuration files. A local readmegen.yaml in the
project directory overlays the global configuration in ~/.readmegen.`
	configInitLong        = `Write a commented default configuration file. Writes readmegen.yaml into the
working directory, or into ~/.readmegen with --global.`

	outputFlagDescription     = "path for the generated README (default: a unique file under the system temp directory)"
	openAIKeyFlagDescription  = "OpenAI API key"
	groqKeyFlagDescription    = "Groq API key"
	geminiKeyFlagDescription  = "Gemini API key"
	exclusionFlagDescription  = "exclude path pattern"
	tokensFlagDescription     = "report the prompt token count"
	modelFlagDescription      = "tokenizer model to use for token counting"
	maxBytesFlagDescription   = "skip files larger than this many bytes (0 disables the limit)"
	copyFlagDescription       = "copy the generated README to the clipboard"
	configFileFlagDescription = "path to a configuration file"
	globalFlagDescription     = "write the global configuration file"
	forceFlagDescription      = "overwrite an existing configuration file"
	defaultTokenizerModelName = "gpt-4o"

	openAIKeyEnvironmentVariable = "OPENAI_API_KEY"
	groqKeyEnvironmentVariable   = "GROQ_API_KEY"
	geminiKeyEnvironmentVariable = "GEMINI_API_KEY"

	generatedReadmeMessageFormat = "README generated with %s: %s\n"
	configInitializedFormat      = "configuration written to %s\n"
	promptSizeMessage            = "assembled prompt"
	clipboardCopyFailedMessage   = "failed to copy the README to the clipboard"
	selectedBackendMessage       = "selected backend"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorDirectoryMissingFormat reports a missing project directory.
	errorDirectoryMissingFormat = "directory '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a path that is not a directory.
	errorNotDirectoryFormat = "path '%s' is not a directory"
	// errorNoFilesCollectedFormat reports a scan that produced no content.
	errorNoFilesCollectedFormat = "no readable source files found under '%s'"
)

// Execute runs the readmegen application.
func Execute(applicationLogger *zap.Logger) error {
	rootCommand := createRootCommand(applicationLogger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(applicationLogger *zap.Logger) *cobra.Command {
	var showVersion bool
	var configurationFilePath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configurationFilePath, configFileFlagName, "", configFileFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(applicationLogger, &configurationFilePath),
		createScanCommand(applicationLogger, &configurationFilePath),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// credentialOptions stores API key flags for the hosted backends.
type credentialOptions struct {
	openAIKey string
	groqKey   string
	geminiKey string
}

// addCredentialFlags registers API key flags on the command.
func addCredentialFlags(command *cobra.Command, options *credentialOptions) {
	command.Flags().StringVar(&options.openAIKey, openAIKeyFlagName, "", openAIKeyFlagDescription)
	command.Flags().StringVar(&options.groqKey, groqKeyFlagName, "", groqKeyFlagDescription)
	command.Flags().StringVar(&options.geminiKey, geminiKeyFlagName, "", geminiKeyFlagDescription)
}

// resolveCredentials combines key flags with their environment fallbacks.
func (options credentialOptions) resolveCredentials() llm.Credentials {
	return llm.Credentials{
		OpenAIAPIKey: firstNonEmpty(options.openAIKey, os.Getenv(openAIKeyEnvironmentVariable)),
		GroqAPIKey:   firstNonEmpty(options.groqKey, os.Getenv(groqKeyEnvironmentVariable)),
		GeminiAPIKey: firstNonEmpty(options.geminiKey, os.Getenv(geminiKeyEnvironmentVariable)),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// scanOptions stores flags shared by the generate and scan commands.
type scanOptions struct {
	exclusionPatterns []string
	tokensEnabled     bool
	tokenizerModel    string
	maxPromptBytes    int64
}

// addScanFlags registers scan-related flags on the command.
func addScanFlags(command *cobra.Command, options *scanOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagShorthand, nil, exclusionFlagDescription)
	command.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	command.Flags().StringVar(&options.tokenizerModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	command.Flags().Int64Var(&options.maxPromptBytes, maxBytesFlagName, 0, maxBytesFlagDescription)
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand(applicationLogger *zap.Logger, configurationFilePath *string) *cobra.Command {
	var outputPath string
	var copyEnabled bool
	var credentialConfiguration credentialOptions
	var scanConfiguration scanOptions

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runGenerate(
				command,
				applicationLogger,
				directoryArgument(arguments),
				*configurationFilePath,
				outputPath,
				copyEnabled,
				credentialConfiguration,
				scanConfiguration,
			)
		},
	}

	generateCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	generateCommand.Flags().BoolVar(&copyEnabled, copyFlagName, false, copyFlagDescription)
	addCredentialFlags(generateCommand, &credentialConfiguration)
	addScanFlags(generateCommand, &scanConfiguration)
	return generateCommand
}

// createScanCommand returns the scan subcommand.
func createScanCommand(applicationLogger *zap.Logger, configurationFilePath *string) *cobra.Command {
	var scanConfiguration scanOptions

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runScan(command, applicationLogger, directoryArgument(arguments), *configurationFilePath, scanConfiguration)
		},
	}

	addScanFlags(scanCommand, &scanConfiguration)
	return scanCommand
}

// createConfigCommand returns the config subcommand with its init action.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Long:  configLongDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var writeGlobal bool
	var forceOverwrite bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShort,
		Long:  configInitLong,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initializationError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: forceOverwrite})
			if initializationError != nil {
				return initializationError
			}
			fmt.Printf(configInitializedFormat, destinationPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)

	configCommand.AddCommand(initCommand)
	return configCommand
}

// effectiveScanSettings resolves scan-related settings in flag, configuration,
// default order. Flags only win when the user actually set them.
type effectiveScanSettings struct {
	exclusionPatterns []string
	tokensEnabled     bool
	tokenizerModel    string
	maxPromptBytes    int64
}

func resolveScanSettings(command *cobra.Command, options scanOptions, loadedConfiguration config.ApplicationConfiguration) effectiveScanSettings {
	settings := effectiveScanSettings{
		exclusionPatterns: append(append([]string{}, loadedConfiguration.Generate.Paths.Exclude...), options.exclusionPatterns...),
		tokensEnabled:     options.tokensEnabled,
		tokenizerModel:    options.tokenizerModel,
		maxPromptBytes:    options.maxPromptBytes,
	}
	if !command.Flags().Changed(tokensFlagName) && loadedConfiguration.Generate.Tokens.Enabled != nil {
		settings.tokensEnabled = *loadedConfiguration.Generate.Tokens.Enabled
	}
	if !command.Flags().Changed(modelFlagName) && loadedConfiguration.Generate.Tokens.Model != "" {
		settings.tokenizerModel = loadedConfiguration.Generate.Tokens.Model
	}
	if !command.Flags().Changed(maxBytesFlagName) && loadedConfiguration.Generate.Prompt.MaxBytes != nil {
		settings.maxPromptBytes = *loadedConfiguration.Generate.Prompt.MaxBytes
	}
	return settings
}

// assemblePrompt validates the directory, applies exclusion rules, and builds
// the prompt shared by the generate and scan commands.
func assemblePrompt(
	applicationLogger *zap.Logger,
	directoryArgument string,
	settings effectiveScanSettings,
) (string, types.ScanSummary, error) {
	validatedDirectory, validationError := validateProjectDirectory(directoryArgument)
	if validationError != nil {
		return "", types.ScanSummary{}, validationError
	}

	rules := scan.DefaultRules().WithPatterns(settings.exclusionPatterns)
	collector := scan.NewCollector(rules, settings.maxPromptBytes, applicationLogger)
	collectedFiles, summary, collectionError := collector.Collect(validatedDirectory.AbsolutePath)
	if collectionError != nil {
		return "", types.ScanSummary{}, collectionError
	}

	promptText := prompt.Build(collectedFiles)

	if settings.tokensEnabled {
		tokenCounter, resolvedName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.tokenizerModel})
		if counterError != nil {
			return "", types.ScanSummary{}, counterError
		}
		tokenCount, countError := tokenCounter.CountString(promptText)
		if countError != nil {
			return "", types.ScanSummary{}, countError
		}
		applicationLogger.Info(promptSizeMessage,
			zap.Int("files", summary.Files),
			zap.String("content_size", utils.FormatFileSize(summary.Bytes)),
			zap.Int("tokens", tokenCount),
			zap.String("tokenizer", resolvedName),
		)
	}

	return promptText, summary, nil
}

// runGenerate executes the full generation pipeline for one directory.
func runGenerate(
	command *cobra.Command,
	applicationLogger *zap.Logger,
	directoryArgument string,
	configurationFilePath string,
	outputPath string,
	copyEnabled bool,
	credentialConfiguration credentialOptions,
	scanConfiguration scanOptions,
) error {
	loadedConfiguration, configurationError := loadConfiguration(configurationFilePath)
	if configurationError != nil {
		return configurationError
	}
	settings := resolveScanSettings(command, scanConfiguration, loadedConfiguration)

	promptText, summary, promptError := assemblePrompt(applicationLogger, directoryArgument, settings)
	if promptError != nil {
		return promptError
	}
	if summary.Files == 0 {
		return fmt.Errorf(errorNoFilesCollectedFormat, directoryArgument)
	}

	generator := llm.NewGenerator(credentialConfiguration.resolveCredentials(), backendOptions(loadedConfiguration))
	applicationLogger.Info(selectedBackendMessage, zap.String("backend", generator.Name()))

	generatedText, generationError := generator.Generate(context.Background(), promptText)
	if generationError != nil {
		return generationError
	}

	result := types.GenerationResult{
		Backend: generator.Name(),
		Text:    output.CleanResponse(generatedText),
	}

	if !command.Flags().Changed(outputFlagName) && loadedConfiguration.Generate.Output != "" {
		outputPath = loadedConfiguration.Generate.Output
	}
	destinationPath := output.ResolveDestination(outputPath)
	if writeError := output.Write(destinationPath, result.Text); writeError != nil {
		return writeError
	}
	fmt.Printf(generatedReadmeMessageFormat, result.Backend, destinationPath)

	if !command.Flags().Changed(copyFlagName) && loadedConfiguration.Generate.Copy != nil {
		copyEnabled = *loadedConfiguration.Generate.Copy
	}
	if copyEnabled {
		if copyError := clipboard.NewService().CopyDocument(result.Text); copyError != nil {
			applicationLogger.Warn(clipboardCopyFailedMessage, zap.Error(copyError))
		}
	}
	return nil
}

// runScan prints the assembled prompt without contacting any backend.
func runScan(
	command *cobra.Command,
	applicationLogger *zap.Logger,
	directoryArgument string,
	configurationFilePath string,
	scanConfiguration scanOptions,
) error {
	loadedConfiguration, configurationError := loadConfiguration(configurationFilePath)
	if configurationError != nil {
		return configurationError
	}
	settings := resolveScanSettings(command, scanConfiguration, loadedConfiguration)

	promptText, _, promptError := assemblePrompt(applicationLogger, directoryArgument, settings)
	if promptError != nil {
		return promptError
	}
	fmt.Println(promptText)
	return nil
}

// loadConfiguration loads the application configuration relative to the
// current working directory.
func loadConfiguration(explicitFilePath string) (config.ApplicationConfiguration, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicitFilePath,
	})
}

// backendOptions maps configured backend overrides onto generator options.
func backendOptions(loadedConfiguration config.ApplicationConfiguration) llm.Options {
	backends := loadedConfiguration.Generate.Backends
	options := llm.Options{
		OpenAIModel: backends.OpenAIModel,
		GroqModel:   backends.GroqModel,
		GeminiModel: backends.GeminiModel,
		OllamaModel: backends.OllamaModel,
		OllamaHost:  backends.OllamaHost,
	}
	if backends.ContextWindow != nil {
		options.ContextWindow = *backends.ContextWindow
	}
	return options
}

// directoryArgument returns the positional directory or the current directory.
func directoryArgument(arguments []string) string {
	if len(arguments) == 0 {
		return defaultDirectory
	}
	return arguments[0]
}

// validateProjectDirectory converts the directory argument to absolute form
// and confirms it is an existing directory.
func validateProjectDirectory(directoryArgument string) (types.ValidatedDirectory, error) {
	absolutePath, absolutePathError := filepath.Abs(directoryArgument)
	if absolutePathError != nil {
		return types.ValidatedDirectory{}, fmt.Errorf(errorAbsolutePathFormat, directoryArgument, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	directoryInformation, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedDirectory{}, fmt.Errorf(errorDirectoryMissingFormat, directoryArgument)
		}
		return types.ValidatedDirectory{}, fmt.Errorf(errorStatFormat, directoryArgument, fileStatusError)
	}
	if !directoryInformation.IsDir() {
		return types.ValidatedDirectory{}, fmt.Errorf(errorNotDirectoryFormat, directoryArgument)
	}
	return types.ValidatedDirectory{AbsolutePath: cleanPath}, nil
}
