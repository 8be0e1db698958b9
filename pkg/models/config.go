package models

import "time"

type Config struct {
    GitHub GitHub `yaml:"github" mapstructure:"github"`
    Output Output `yaml:"output" mapstructure:"output"`
    Git    Git    `yaml:"git" mapstructure:"git"`
    Log    Log    `yaml:"log" mapstructure:"log"`
}

type GitHub struct {
    APIURL  string        `yaml:"api_url" mapstructure:"api_url"`
    WebURL  string        `yaml:"web_url" mapstructure:"web_url"`
    Org     string        `yaml:"org" mapstructure:"org"`
    Repo    string        `yaml:"repo" mapstructure:"repo"`
    Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // 0 keeps the HTTP client default
}

type Output struct {
    IndexFile  string `yaml:"index_file" mapstructure:"index_file"`
    CommitsDir string `yaml:"commits_dir" mapstructure:"commits_dir"`
    LinkPrefix string `yaml:"link_prefix" mapstructure:"link_prefix"` // Prefix of the placeholder links written into the index
    CreateDirs bool   `yaml:"create_dirs" mapstructure:"create_dirs"`
}

// Git controls staging of newly scaffolded placeholder files
type Git struct {
    Stage bool `yaml:"stage" mapstructure:"stage"`
}

type Log struct {
    Level    string `yaml:"level" mapstructure:"level"`
    Encoding string `yaml:"encoding" mapstructure:"encoding"` // "console" or "json"
    File     string `yaml:"file" mapstructure:"file"`
}
