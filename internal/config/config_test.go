package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "commitnotes/pkg/errors"
    "commitnotes/pkg/models"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gopkg.in/yaml.v3"
)

// chdir switches into a fresh directory so no local commitnotes.yaml or .env leaks in
func chdir(t *testing.T) string {
    t.Helper()
    dir := t.TempDir()
    wd, err := os.Getwd()
    require.NoError(t, err)
    require.NoError(t, os.Chdir(dir))
    t.Cleanup(func() { _ = os.Chdir(wd) })
    t.Setenv("HOME", dir)
    return dir
}

func TestGetConfigFile(t *testing.T) {
    home := chdir(t)
    assert.Equal(t, filepath.Join(home, ".commitnotes"), GetConfigPath())
    assert.Equal(t, filepath.Join(home, ".commitnotes", "config.yaml"), GetConfigFile())

    t.Setenv("COMMITNOTES_CONFIG", filepath.Join(home, "custom", "notes.yaml"))
    assert.Equal(t, filepath.Join(home, "custom"), GetConfigPath())
    assert.Equal(t, filepath.Join(home, "custom", "notes.yaml"), GetConfigFile())
}

func TestDefaults(t *testing.T) {
    chdir(t)

    v, err := NewViper("")
    require.NoError(t, err)
    cfg, err := Load(v)
    require.NoError(t, err)

    assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
    assert.Equal(t, "https://github.com", cfg.GitHub.WebURL)
    assert.Equal(t, "devchat-ai", cfg.GitHub.Org)
    assert.Equal(t, "gopool", cfg.GitHub.Repo)
    assert.Equal(t, time.Duration(0), cfg.GitHub.Timeout)
    assert.Equal(t, "devchat-ai/gopool/index.md", cfg.Output.IndexFile)
    assert.Equal(t, "devchat-ai/gopool/commits", cfg.Output.CommitsDir)
    assert.Equal(t, "./commits", cfg.Output.LinkPrefix)
    assert.True(t, cfg.Output.CreateDirs)
    assert.False(t, cfg.Git.Stage)
    assert.Equal(t, "info", cfg.Log.Level)

    assert.Equal(t, cfg, Default())
}

func TestLocalConfigFileAndEnvOverride(t *testing.T) {
    dir := chdir(t)
    content := `
github:
  org: acme
  repo: widgets
  timeout: 15s
output:
  index_file: notes/index.md
`
    require.NoError(t, os.WriteFile(filepath.Join(dir, LocalConfigFile), []byte(content), 0600))
    t.Setenv("COMMITNOTES_GITHUB_REPO", "gadgets")
    t.Setenv("COMMITNOTES_GIT_STAGE", "true")

    v, err := NewViper("")
    require.NoError(t, err)
    cfg, err := Load(v)
    require.NoError(t, err)

    assert.Equal(t, "acme", cfg.GitHub.Org)
    assert.Equal(t, "gadgets", cfg.GitHub.Repo)
    assert.Equal(t, 15*time.Second, cfg.GitHub.Timeout)
    assert.Equal(t, "notes/index.md", cfg.Output.IndexFile)
    assert.Equal(t, "devchat-ai/gopool/commits", cfg.Output.CommitsDir)
    assert.True(t, cfg.Git.Stage)
}

func TestLoadEnvFiles(t *testing.T) {
    dir := chdir(t)
    require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("COMMITNOTES_GITHUB_ORG=from-dotenv\n"), 0600))
    t.Setenv("COMMITNOTES_GITHUB_ORG", "")
    require.NoError(t, os.Unsetenv("COMMITNOTES_GITHUB_ORG"))

    require.NoError(t, LoadEnvFiles())
    t.Cleanup(func() { _ = os.Unsetenv("COMMITNOTES_GITHUB_ORG") })

    v, err := NewViper("")
    require.NoError(t, err)
    cfg, err := Load(v)
    require.NoError(t, err)
    assert.Equal(t, "from-dotenv", cfg.GitHub.Org)

    // Missing files are skipped
    assert.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env")))
}

func TestExplicitConfigFileMustExist(t *testing.T) {
    dir := chdir(t)

    _, err := NewViper(filepath.Join(dir, "nope.yaml"))
    require.Error(t, err)
    assert.Equal(t, errors.ErrCodeConfigNotFound, errors.GetErrorCode(err))
}

func TestValidate(t *testing.T) {
    tests := []struct {
        name   string
        mutate func(*models.Config)
        field  string
    }{
        {"empty org", func(c *models.Config) { c.GitHub.Org = "" }, "github.org"},
        {"blank repo", func(c *models.Config) { c.GitHub.Repo = "  " }, "github.repo"},
        {"bad api url", func(c *models.Config) { c.GitHub.APIURL = "ftp://example.com" }, "github.api_url"},
        {"relative web url", func(c *models.Config) { c.GitHub.WebURL = "github.com" }, "github.web_url"},
        {"negative timeout", func(c *models.Config) { c.GitHub.Timeout = -time.Second }, "github.timeout"},
        {"empty index", func(c *models.Config) { c.Output.IndexFile = "" }, "output.index_file"},
        {"empty commits dir", func(c *models.Config) { c.Output.CommitsDir = "" }, "output.commits_dir"},
        {"unknown encoding", func(c *models.Config) { c.Log.Encoding = "xml" }, "log.encoding"},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            cfg := Default()
            tt.mutate(cfg)
            err := Validate(cfg)
            require.Error(t, err)
            assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetErrorCode(err))
            var appErr *errors.AppError
            require.ErrorAs(t, err, &appErr)
            assert.Equal(t, tt.field, appErr.Context["field"])
        })
    }

    assert.NoError(t, Validate(Default()))
}

func TestSaveAndLoad(t *testing.T) {
    dir := chdir(t)
    path := filepath.Join(dir, "nested", "config.yaml")

    cfg := Default()
    cfg.GitHub.Org = "acme"
    cfg.GitHub.Timeout = 30 * time.Second
    cfg.Git.Stage = true

    require.NoError(t, Save(cfg, path))
    assert.True(t, Exists(path))

    info, err := os.Stat(path)
    require.NoError(t, err)
    assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

    data, err := os.ReadFile(path)
    require.NoError(t, err)
    var raw map[string]interface{}
    require.NoError(t, yaml.Unmarshal(data, &raw))
    assert.Contains(t, raw, "github")

    v, err := NewViper(path)
    require.NoError(t, err)
    loaded, err := Load(v)
    require.NoError(t, err)
    assert.Equal(t, cfg, loaded)
}
