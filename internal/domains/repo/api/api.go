package api

import (
	"github.com/tunegen/tunegen/internal/contracts/v1/project"
	"github.com/tunegen/tunegen/internal/domains/repo/app"
	"github.com/tunegen/tunegen/internal/domains/repo/ports"
)

// API is the stable boundary for collecting and loading project files.
type API interface {
	Scan(rootPath string, opts ScanOptions) (project.ScanResultV1, error)
	ReadTextRel(rootPath string, relPath string, maxBytes int64) (string, error)
}

// Dependencies are the OS adapters (or fakes) injected by the composition root.
type Dependencies struct {
	Scanner ports.Scanner
	Reader  ports.Reader
}

// ScanOptions are the caller-facing collection options.
type ScanOptions struct {
	UseGitignore bool
	ExtraIgnores []string
	MaxFileBytes int64
}

func New(deps Dependencies) API {
	return &repoAPI{
		svc: app.NewService(deps.Scanner, deps.Reader),
	}
}

type repoAPI struct {
	svc *app.Service
}

func (r *repoAPI) Scan(rootPath string, opts ScanOptions) (project.ScanResultV1, error) {
	return r.svc.Scan(rootPath, app.ScanOptions{
		UseGitignore: opts.UseGitignore,
		ExtraIgnores: opts.ExtraIgnores,
		MaxFileBytes: opts.MaxFileBytes,
	})
}

func (r *repoAPI) ReadTextRel(rootPath string, relPath string, maxBytes int64) (string, error) {
	return r.svc.ReadTextRel(rootPath, relPath, maxBytes)
}

// SkipReason classifies a ReadTextRel error as one of the project.Skip* reasons.
func SkipReason(err error) string {
	return app.SkipReason(err)
}
