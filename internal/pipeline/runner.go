package pipeline

import (
	"context"
	"path/filepath"

	"commitnotes/internal/common"
	"commitnotes/internal/git"
	"commitnotes/internal/github"
	"commitnotes/internal/markdown"
	"commitnotes/internal/scaffold"
	"commitnotes/pkg/errors"
	"commitnotes/pkg/models"
	"go.uber.org/zap"
)

// CommitSource lists the commits of a repository
type CommitSource interface {
	FetchCommits(ctx context.Context, org, repo string) ([]models.CommitRecord, error)
}

// Stager records newly created files in version control
type Stager interface {
	StageFiles(paths []string) error
}

// StagerFactory opens a Stager for the repository that contains dir
type StagerFactory func(dir string) (Stager, error)

// Result summarises one run
type Result struct {
	Records   []models.CommitRecord
	IndexFile string
	Created   []string
	Planned   []string // placeholder paths a dry run would scaffold
	Staged    int
	DryRun    bool
	Table     string
}

// Runner executes fetch, append and scaffold in order, stopping at the first error
type Runner struct {
	cfg       *models.Config
	source    CommitSource
	logger    *zap.Logger
	newStager StagerFactory
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStagerFactory replaces the git stager used when git.stage is enabled
func WithStagerFactory(f StagerFactory) Option {
	return func(r *Runner) {
		if f != nil {
			r.newStager = f
		}
	}
}

func NewRunner(cfg *models.Config, source CommitSource, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		source: source,
		logger: zap.NewNop(),
		newStager: func(dir string) (Stager, error) {
			return git.NewGitManager(dir)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewGitHubSource builds the API client described by cfg
func NewGitHubSource(cfg *models.Config, userAgent string) *github.Client {
	return github.NewClient(cfg.GitHub.APIURL,
		github.WithWebURL(cfg.GitHub.WebURL),
		github.WithLinkPrefix(cfg.Output.LinkPrefix),
		github.WithTimeout(cfg.GitHub.Timeout),
		github.WithUserAgent(userAgent),
	)
}

// Run fetches the commits, appends them to the index file and scaffolds the
// placeholder notes
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	records, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	out := r.cfg.Output
	result := &Result{Records: records, IndexFile: out.IndexFile}

	if out.CreateDirs {
		for _, dir := range []string{filepath.Dir(out.IndexFile), out.CommitsDir} {
			if err := common.EnsureDir(dir); err != nil {
				return result, errors.FilesystemError("create directory", dir, err)
			}
		}
	}

	if err := markdown.Append(records, out.IndexFile); err != nil {
		return result, err
	}
	r.logger.Info("appended commit table",
		zap.String("index_file", out.IndexFile),
		zap.Int("rows", len(records)))

	for _, rec := range records {
		created, err := scaffold.Scaffold(rec, out.CommitsDir)
		result.Created = append(result.Created, created...)
		if err != nil {
			return result, err
		}
		for _, path := range created {
			r.logger.Debug("created placeholder", zap.String("path", path), zap.String("commit", rec.ShortHash()))
		}
	}
	r.logger.Info("scaffolded placeholders",
		zap.String("commits_dir", out.CommitsDir),
		zap.Int("created", len(result.Created)))

	if r.cfg.Git.Stage && len(result.Created) > 0 {
		stager, err := r.newStager(out.CommitsDir)
		if err != nil {
			return result, err
		}
		if err := stager.StageFiles(result.Created); err != nil {
			return result, err
		}
		result.Staged = len(result.Created)
		r.logger.Info("staged placeholders", zap.Int("files", result.Staged))
	}

	return result, nil
}

// Preview fetches the commits and renders the table without touching the disk
func (r *Runner) Preview(ctx context.Context) (*Result, error) {
	records, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Records: records, IndexFile: r.cfg.Output.IndexFile, DryRun: true}
	if len(records) > 0 {
		result.Table = markdown.Render(records)
	}
	for _, rec := range records {
		result.Planned = append(result.Planned, scaffold.PlaceholderPaths(rec, r.cfg.Output.CommitsDir)...)
	}
	return result, nil
}

func (r *Runner) fetch(ctx context.Context) ([]models.CommitRecord, error) {
	org, repo := r.cfg.GitHub.Org, r.cfg.GitHub.Repo
	r.logger.Debug("fetching commits", zap.String("org", org), zap.String("repo", repo))

	records, err := r.source.FetchCommits(ctx, org, repo)
	if err != nil {
		return nil, err
	}

	r.logger.Info("fetched commits",
		zap.String("repository", org+"/"+repo),
		zap.Int("count", len(records)))
	return records, nil
}
