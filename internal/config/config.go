package config

import (
    stderrors "errors"
    "fmt"
    "net/url"
    "os"
    "path/filepath"
    "strings"

    "commitnotes/internal/common"
    "commitnotes/pkg/errors"
    "commitnotes/pkg/models"
    "github.com/joho/godotenv"
    "github.com/spf13/viper"
    "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. COMMITNOTES_GITHUB_ORG
const EnvPrefix = "COMMITNOTES"

// LocalConfigFile is looked up in the working directory before the home config
const LocalConfigFile = "commitnotes.yaml"

// SetDefaults registers the built-in values, which target devchat-ai/gopool
func SetDefaults(v *viper.Viper) {
    v.SetDefault("github.api_url", "https://api.github.com")
    v.SetDefault("github.web_url", "https://github.com")
    v.SetDefault("github.org", "devchat-ai")
    v.SetDefault("github.repo", "gopool")
    v.SetDefault("github.timeout", "0s")

    v.SetDefault("output.index_file", "devchat-ai/gopool/index.md")
    v.SetDefault("output.commits_dir", "devchat-ai/gopool/commits")
    v.SetDefault("output.link_prefix", "./commits")
    v.SetDefault("output.create_dirs", true)

    v.SetDefault("git.stage", false)

    v.SetDefault("log.level", "info")
    v.SetDefault("log.encoding", "console")
    v.SetDefault("log.file", "")
}

func GetConfigPath() string {
    if configFile := os.Getenv(EnvPrefix + "_CONFIG"); configFile != "" {
        return filepath.Dir(configFile)
    }
    home, _ := os.UserHomeDir()
    return filepath.Join(home, ".commitnotes")
}

func GetConfigFile() string {
    if configFile := os.Getenv(EnvPrefix + "_CONFIG"); configFile != "" {
        cleaned, err := common.CleanPath(common.ExpandHome(configFile))
        if err != nil {
            return filepath.Join(GetConfigPath(), "config.yaml")
        }
        return cleaned
    }
    return filepath.Join(GetConfigPath(), "config.yaml")
}

// LoadEnvFiles loads the given dotenv files when they exist. Variables already
// present in the environment win.
func LoadEnvFiles(names ...string) error {
    if len(names) == 0 {
        names = []string{".env"}
    }
    for _, name := range names {
        if _, err := os.Stat(name); err != nil {
            continue
        }
        if err := godotenv.Load(name); err != nil {
            return errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("failed to load env file %s", name))
        }
    }
    return nil
}

// NewViper builds a viper instance with defaults, environment overrides and,
// when one is found, a YAML config file. An explicit configFile must exist.
func NewViper(configFile string) (*viper.Viper, error) {
    v := viper.New()
    SetDefaults(v)
    v.SetConfigType("yaml")
    v.SetEnvPrefix(EnvPrefix)
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    path, explicit := resolveConfigFile(configFile)
    if path == "" {
        return v, nil
    }

    v.SetConfigFile(path)
    if err := v.ReadInConfig(); err != nil {
        var notFound viper.ConfigFileNotFoundError
        if !explicit && (stderrors.As(err, &notFound) || os.IsNotExist(err)) {
            return v, nil
        }
        if os.IsNotExist(err) {
            return nil, errors.Wrap(err, errors.ErrCodeConfigNotFound, fmt.Sprintf("config file %s not found", path)).
                WithSuggestions("Run 'commitnotes init' to create one")
        }
        return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("failed to read config file %s", path))
    }
    return v, nil
}

func resolveConfigFile(configFile string) (string, bool) {
    if configFile != "" {
        return common.ExpandHome(configFile), true
    }
    if os.Getenv(EnvPrefix+"_CONFIG") != "" {
        return GetConfigFile(), true
    }
    for _, candidate := range []string{LocalConfigFile, GetConfigFile()} {
        if Exists(candidate) {
            return candidate, false
        }
    }
    return "", false
}

// Load decodes the layered settings of v into a validated Config
func Load(v *viper.Viper) (*models.Config, error) {
    var config models.Config
    if err := v.Unmarshal(&config); err != nil {
        return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
    }
    if err := Validate(&config); err != nil {
        return nil, err
    }
    return &config, nil
}

// Default returns the built-in configuration
func Default() *models.Config {
    v := viper.New()
    SetDefaults(v)
    var config models.Config
    // Defaults always decode.
    _ = v.Unmarshal(&config)
    return &config
}

func Validate(config *models.Config) error {
    if strings.TrimSpace(config.GitHub.Org) == "" {
        return errors.ConfigError("GitHub organization must not be empty", "github.org")
    }
    if strings.TrimSpace(config.GitHub.Repo) == "" {
        return errors.ConfigError("GitHub repository must not be empty", "github.repo")
    }
    for field, raw := range map[string]string{
        "github.api_url": config.GitHub.APIURL,
        "github.web_url": config.GitHub.WebURL,
    } {
        u, err := url.Parse(raw)
        if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
            return errors.ConfigError(fmt.Sprintf("%q is not an http(s) URL", raw), field)
        }
    }
    if config.GitHub.Timeout < 0 {
        return errors.ConfigError("timeout must not be negative", "github.timeout")
    }
    if strings.TrimSpace(config.Output.IndexFile) == "" {
        return errors.ConfigError("index file path must not be empty", "output.index_file")
    }
    if strings.TrimSpace(config.Output.CommitsDir) == "" {
        return errors.ConfigError("commits directory must not be empty", "output.commits_dir")
    }
    switch config.Log.Encoding {
    case "", "console", "json":
    default:
        return errors.ConfigError(fmt.Sprintf("unknown log encoding %q", config.Log.Encoding), "log.encoding")
    }
    return nil
}

// Save writes config as YAML to path, creating the parent directory
func Save(config *models.Config, path string) error {
    if path == "" {
        path = GetConfigFile()
    }
    if err := os.MkdirAll(filepath.Dir(path), common.DirPermissionSecure); err != nil {
        return errors.FilesystemError("create config directory for", path, err)
    }

    data, err := yaml.Marshal(config)
    if err != nil {
        return fmt.Errorf("failed to marshal config: %w", err)
    }

    if err := os.WriteFile(path, data, common.FilePermissionSecure); err != nil {
        return errors.FilesystemError("write config file", path, err)
    }

    return nil
}

func Exists(path string) bool {
    info, err := os.Stat(path)
    return err == nil && !info.IsDir()
}
