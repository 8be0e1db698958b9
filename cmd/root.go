package cmd

import (
    "context"
    "fmt"
    "os"
    "os/signal"
    "syscall"

    "commitnotes/internal/config"
    "commitnotes/internal/observability"
    "commitnotes/internal/pipeline"
    "commitnotes/internal/ui"
    "commitnotes/pkg/models"
    "github.com/spf13/cobra"
    "github.com/spf13/viper"
    "go.uber.org/zap"
)

var (
    cfgFile string
    verbose bool
    dryRun  bool

    rootCmd = &cobra.Command{
        Use:   "commitnotes",
        Short: "Record a repository's commits as a prompt index",
        Long: `commitnotes lists the commits of a GitHub repository, appends them to a
markdown index as a table and creates an empty note pair per commit for the
prompts behind it.`,
        Args:          cobra.NoArgs,
        SilenceUsage:  true,
        SilenceErrors: true,
        RunE:          runRecord,
    }
)

// overrides maps command line flags onto configuration keys
var overrides = map[string]string{
    "org":   "github.org",
    "repo":  "github.repo",
    "index": "output.index_file",
    "dir":   "output.commits_dir",
}

func Execute() {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    if err := rootCmd.ExecuteContext(ctx); err != nil {
        ui.ShowError(os.Stderr, err, verbose)
        stop()
        os.Exit(1)
    }
}

func init() {
    rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./commitnotes.yaml or ~/.commitnotes/config.yaml)")
    rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and full error details")

    rootCmd.Flags().String("org", "", "GitHub organization or user")
    rootCmd.Flags().String("repo", "", "GitHub repository name")
    rootCmd.Flags().String("index", "", "markdown index file the table is appended to")
    rootCmd.Flags().String("dir", "", "directory for the per-commit note files")
    rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the table and planned files without writing anything")
}

func runRecord(cmd *cobra.Command, args []string) error {
    cfg, err := loadConfig(cmd)
    if err != nil {
        return err
    }

    logger, err := newLogger(cmd, cfg)
    if err != nil {
        return err
    }
    defer func() { _ = logger.Sync() }()

    source := pipeline.NewGitHubSource(cfg, "commitnotes/"+Version)
    runner := pipeline.NewRunner(cfg, source, pipeline.WithLogger(logger))

    var result *pipeline.Result
    if dryRun {
        result, err = runner.Preview(cmd.Context())
    } else {
        result, err = runner.Run(cmd.Context())
    }
    if err != nil {
        return err
    }

    out := cmd.OutOrStdout()
    if result.DryRun {
        fmt.Fprint(out, result.Table)
        for _, path := range result.Planned {
            fmt.Fprintf(out, "would create %s\n", path)
        }
    }

    ui.ShowSummary(out, ui.Summary{
        Repository: cfg.GitHub.Org + "/" + cfg.GitHub.Repo,
        IndexFile:  cfg.Output.IndexFile,
        CommitsDir: cfg.Output.CommitsDir,
        Commits:    len(result.Records),
        Created:    len(result.Created),
        Staged:     result.Staged,
        DryRun:     result.DryRun,
    })
    return nil
}

// loadConfig layers defaults, config file, environment and explicitly set flags
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
    if err := config.LoadEnvFiles(); err != nil {
        return nil, err
    }

    v, err := config.NewViper(cfgFile)
    if err != nil {
        return nil, err
    }
    applyFlags(cmd, v)

    return config.Load(v)
}

func applyFlags(cmd *cobra.Command, v *viper.Viper) {
    for name, key := range overrides {
        flag := cmd.Flags().Lookup(name)
        if flag != nil && flag.Changed {
            v.Set(key, flag.Value.String())
        }
    }
}

func newLogger(cmd *cobra.Command, cfg *models.Config) (*zap.Logger, error) {
    level := cfg.Log.Level
    if verbose {
        level = "debug"
    }
    return observability.NewLogger(observability.LoggerConfig{
        Level:    level,
        Encoding: cfg.Log.Encoding,
        Output:   cmd.ErrOrStderr(),
        FilePath: cfg.Log.File,
        Service:  "commitnotes",
        Version:  Version,
    })
}
