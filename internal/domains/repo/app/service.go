package app

import (
	stderrors "errors"
	"path/filepath"

	"github.com/tunegen/tunegen/internal/contracts/v1/project"
	"github.com/tunegen/tunegen/internal/domains/repo/domain"
	"github.com/tunegen/tunegen/internal/domains/repo/ports"
	"github.com/tunegen/tunegen/internal/platform/errors"
)

type Service struct {
	scn ports.Scanner
	rdr ports.Reader
}

func NewService(scn ports.Scanner, rdr ports.Reader) *Service {
	return &Service{
		scn: scn,
		rdr: rdr,
	}
}

type ScanOptions struct {
	UseGitignore bool
	ExtraIgnores []string
	MaxFileBytes int64
}

func (s *Service) Scan(rootPath string, opts ScanOptions) (project.ScanResultV1, error) {
	return s.scn.Scan(ports.ScanRequest{
		RootPath:     rootPath,
		UseGitignore: opts.UseGitignore,
		ExtraIgnores: opts.ExtraIgnores,
		MaxFileBytes: opts.MaxFileBytes,
	})
}

func (s *Service) ReadFileRel(rootPath string, relPath string, maxBytes int64) ([]byte, error) {
	// relPath is POSIX-style in contracts; convert to OS path at the edge.
	abs := filepath.Join(rootPath, filepath.FromSlash(relPath))
	return s.rdr.ReadFile(abs, maxBytes)
}

// ReadTextRel loads a collected file as text. Files with a binary extension
// are rejected before any read; the rest are read and sniffed. Every failure
// is a KindRead error wrapping one of the domain sentinels or the I/O cause.
func (s *Service) ReadTextRel(rootPath string, relPath string, maxBytes int64) (string, error) {
	if domain.HasBinaryExtension(relPath) {
		return "", errors.NewRead(relPath, domain.ErrBinaryExtension)
	}
	b, err := s.ReadFileRel(rootPath, relPath, maxBytes)
	if err != nil {
		return "", err
	}
	if err := domain.CheckText(b); err != nil {
		return "", errors.NewRead(relPath, err)
	}
	return string(b), nil
}

// SkipReason maps a ReadTextRel error to a project.Skip* reason.
func SkipReason(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, domain.ErrBinaryExtension), stderrors.Is(err, domain.ErrBinaryContent):
		return project.SkipBinary
	case stderrors.Is(err, domain.ErrNotUTF8):
		return project.SkipNotUTF8
	case stderrors.Is(err, domain.ErrTooLarge):
		return project.SkipTooLarge
	default:
		return project.SkipUnreadable
	}
}
