package config

import (
	"fmt"
	"os"

	"github.com/mattco98/gcverify/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file
type Config struct {
	Version        string   `mapstructure:"version"`
	Theme          string   `mapstructure:"theme"`
	Highlight      bool     `mapstructure:"highlight"`
	EnableCache    bool     `mapstructure:"enable_cache"`
	FailOnFindings bool     `mapstructure:"fail_on_findings"`
	SkipBuild      bool     `mapstructure:"skip_build"`
	Jobs           int      `mapstructure:"jobs"`
	ProjectRoot    string   `mapstructure:"project_root"`
	BuildDir       string   `mapstructure:"build_dir"`
	BuildPreset    string   `mapstructure:"build_preset"`
	VerifierPath   string   `mapstructure:"verifier_path"`
	Define         string   `mapstructure:"define"`
	SearchRoots    []string `mapstructure:"search_roots"`
	Suffixes       []string `mapstructure:"suffixes"`
}

// DefaultConfig values. The search roots and toolchain offsets match the
// layout of the engine source tree the verifier was written against.
var DefaultConfig = Config{
	Version:        "1.0.0",
	Theme:          "dracula",
	Highlight:      false,
	EnableCache:    true,
	FailOnFindings: true,
	SkipBuild:      false,
	Jobs:           0, // 0 = max(1, NumCPU-2)
	ProjectRoot:    ".",
	BuildDir:       "./build",
	BuildPreset:    "x86_64clang",
	VerifierPath:   "./build/libjs-gc-verifier",
	Define:         "USING_AK_GLOBALLY",
	SearchRoots: []string{
		"Applications/Assistant",
		"Applications/Browser",
		"Applications/Spreadsheet",
		"Applications/TextEditor",
		"DevTools/HackStudio",
		"Libraries/LibJS",
		"Libraries/LibMarkdown",
		"Libraries/LibWeb",
		"Services/WebContent",
	},
	Suffixes: []string{".h", ".cpp"},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	// Set default values using Viper
	setDefaults()

	// Automatically read environment variables
	viper.AutomaticEnv()

	// Explicitly bind environment variables to config keys
	bindEnv()

	// Check if the user provided a config file
	if cfgFile != "" {
		// Use the config file from the flag
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		// Look for configuration files in the current directory
		viper.SetConfigName("gcverify-config")
		viper.AddConfigPath(cwd)

		// Support both YAML and JSON formats
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			// If both fail, continue with defaults
			_ = viper.ReadInConfig()
		}
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	// Unmarshal the configuration into the Config struct
	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("highlight", DefaultConfig.Highlight)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("fail_on_findings", DefaultConfig.FailOnFindings)
	viper.SetDefault("skip_build", DefaultConfig.SkipBuild)
	viper.SetDefault("jobs", DefaultConfig.Jobs)
	viper.SetDefault("project_root", DefaultConfig.ProjectRoot)
	viper.SetDefault("build_dir", DefaultConfig.BuildDir)
	viper.SetDefault("build_preset", DefaultConfig.BuildPreset)
	viper.SetDefault("verifier_path", DefaultConfig.VerifierPath)
	viper.SetDefault("define", DefaultConfig.Define)
	viper.SetDefault("search_roots", DefaultConfig.SearchRoots)
	viper.SetDefault("suffixes", DefaultConfig.Suffixes)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "GCVERIFY_THEME")
	_ = viper.BindEnv("highlight", "GCVERIFY_HIGHLIGHT")
	_ = viper.BindEnv("enable_cache", "GCVERIFY_ENABLE_CACHE")
	_ = viper.BindEnv("fail_on_findings", "GCVERIFY_FAIL_ON_FINDINGS")
	_ = viper.BindEnv("jobs", "GCVERIFY_JOBS")
	_ = viper.BindEnv("project_root", "GCVERIFY_PROJECT_ROOT")
	_ = viper.BindEnv("build_dir", "GCVERIFY_BUILD_DIR")
	_ = viper.BindEnv("build_preset", "GCVERIFY_BUILD_PRESET")
	_ = viper.BindEnv("verifier_path", "GCVERIFY_VERIFIER_PATH")
	_ = viper.BindEnv("define", "GCVERIFY_DEFINE")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("highlight", rootCmd.PersistentFlags().Lookup("highlight"))
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable_cache"))
	_ = viper.BindPFlag("jobs", rootCmd.PersistentFlags().Lookup("jobs"))
	_ = viper.BindPFlag("project_root", rootCmd.PersistentFlags().Lookup("project_root"))
	_ = viper.BindPFlag("build_dir", rootCmd.PersistentFlags().Lookup("build_dir"))
	_ = viper.BindPFlag("build_preset", rootCmd.PersistentFlags().Lookup("build_preset"))
	_ = viper.BindPFlag("verifier_path", rootCmd.PersistentFlags().Lookup("verifier_path"))
	_ = viper.BindPFlag("define", rootCmd.PersistentFlags().Lookup("define"))
	_ = viper.BindPFlag("search_roots", rootCmd.PersistentFlags().Lookup("search_roots"))
	_ = viper.BindPFlag("suffixes", rootCmd.PersistentFlags().Lookup("suffixes"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Chroma theme used when diagnostic highlighting is enabled. (e.g., 'dracula', 'github')")
	rootCmd.PersistentFlags().Bool("highlight", DefaultConfig.Highlight, "Highlight verifier diagnostics for terminal display.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Skip files whose contents produced a clean result in a previous run.")
	rootCmd.PersistentFlags().IntP("jobs", "j", DefaultConfig.Jobs, "Number of parallel verifier processes. 0 uses all logical CPUs minus two.")
	rootCmd.PersistentFlags().String("project_root", DefaultConfig.ProjectRoot, "Root of the engine checkout to verify.")
	rootCmd.PersistentFlags().String("build_dir", DefaultConfig.BuildDir, "Build directory passed to the build tool; home of the verifier executable.")
	rootCmd.PersistentFlags().String("build_preset", DefaultConfig.BuildPreset, "Toolchain build preset providing the include directory and compile database.")
	rootCmd.PersistentFlags().String("verifier_path", DefaultConfig.VerifierPath, "Path to the verifier executable.")
	rootCmd.PersistentFlags().String("define", DefaultConfig.Define, "Preprocessor macro defined (=1) for every verifier invocation.")
	rootCmd.PersistentFlags().StringSlice("search_roots", DefaultConfig.SearchRoots, "Directories under the source root to scan for headers and sources.")
	rootCmd.PersistentFlags().StringSlice("suffixes", DefaultConfig.Suffixes, "File name suffixes included in the worklist.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}
