package ports

import project "github.com/tunegen/tunegen/internal/contracts/v1/project"

type ScanRequest struct {
	RootPath string
	// UseGitignore applies every .gitignore found under RootPath, scoped to its directory.
	UseGitignore bool
	// ExtraIgnores are gitignore-syntax patterns rooted at RootPath, applied regardless of UseGitignore.
	ExtraIgnores []string
	MaxFileBytes int64
}

type Scanner interface {
	Scan(req ScanRequest) (project.ScanResultV1, error)
}
