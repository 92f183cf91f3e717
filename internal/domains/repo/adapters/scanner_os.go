package adapters

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/tunegen/tunegen/internal/contracts/v1/project"
	"github.com/tunegen/tunegen/internal/domains/repo/domain"
	"github.com/tunegen/tunegen/internal/domains/repo/ports"
	"github.com/tunegen/tunegen/internal/platform/errors"
	"github.com/tunegen/tunegen/internal/platform/paths"
)

// vcsDirs are never descended into.
var vcsDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

type OSScanner struct{}

func NewOSScanner() OSScanner {
	return OSScanner{}
}

func (s OSScanner) Scan(req ports.ScanRequest) (project.ScanResultV1, error) {
	rootAbs, err := filepath.Abs(req.RootPath)
	if err != nil {
		return project.ScanResultV1{}, errors.NewPathNotFound(req.RootPath, err)
	}
	// Walk the resolved root so a symlinked root is descended into.
	rootAbs, err = filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return project.ScanResultV1{}, errors.NewPathNotFound(req.RootPath, err)
	}
	info, err := os.Stat(rootAbs)
	if err != nil {
		return project.ScanResultV1{}, errors.NewPathNotFound(req.RootPath, err)
	}
	if !info.IsDir() {
		return project.ScanResultV1{}, errors.NewPathNotFound(req.RootPath, nil)
	}

	// Extra patterns only add exclusions on top of .gitignore results; their
	// negations apply within the extra list only.
	extra := domain.NewMatcher(domain.ParseRules("", req.ExtraIgnores)...)
	gitignore := domain.NewMatcher()

	var res project.ScanResultV1
	skip := func(rel string, reason string, err error) {
		sk := project.SkippedFileV1{RelPath: rel, Reason: reason}
		if err != nil {
			sk.Detail = err.Error()
		}
		res.Skipped = append(res.Skipped, sk)
	}
	loadIgnoreFile := func(dirAbs string, dirRel string) {
		data, err := os.ReadFile(filepath.Join(dirAbs, domain.IgnoreFileName))
		if err != nil {
			if !os.IsNotExist(err) {
				skip(path.Join(dirRel, domain.IgnoreFileName), project.SkipUnreadable, err)
			}
			return
		}
		gitignore.Add(domain.ParseIgnoreFile(dirRel, data)...)
	}
	ignored := func(rel string, isDir bool) bool {
		return extra.Ignored(rel, isDir) || gitignore.Ignored(rel, isDir)
	}

	walkErr := filepath.WalkDir(rootAbs, func(p string, entry fs.DirEntry, walkErr error) error {
		if p == rootAbs {
			if walkErr != nil {
				return errors.NewPathNotFound(req.RootPath, walkErr)
			}
			if req.UseGitignore {
				loadIgnoreFile(rootAbs, "")
			}
			return nil
		}

		rel, relErr := paths.ToPosixRel(rootAbs, p)
		if relErr != nil {
			return nil
		}

		if walkErr != nil {
			skip(rel, project.SkipUnreadable, walkErr)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if vcsDirs[entry.Name()] {
				return fs.SkipDir
			}
			if ignored(rel, true) {
				res.IgnoredEntries++
				return fs.SkipDir
			}
			if req.UseGitignore {
				loadIgnoreFile(p, rel)
			}
			return nil
		}

		// Ignore files are rule sources when honored, not project content.
		if req.UseGitignore && entry.Name() == domain.IgnoreFileName {
			return nil
		}
		if ignored(rel, false) {
			res.IgnoredEntries++
			return nil
		}

		if !entry.Type().IsRegular() {
			skip(rel, project.SkipNotRegular, nil)
			return nil
		}
		fi, err := entry.Info()
		if err != nil {
			skip(rel, project.SkipUnreadable, err)
			return nil
		}
		if req.MaxFileBytes > 0 && fi.Size() > req.MaxFileBytes {
			skip(rel, project.SkipTooLarge, nil)
			return nil
		}

		res.Files = append(res.Files, project.FileRefV1{
			RelPath:   rel,
			SizeBytes: fi.Size(),
		})
		return nil
	})
	if walkErr != nil {
		return project.ScanResultV1{}, walkErr
	}

	sort.Slice(res.Files, func(i, j int) bool {
		return res.Files[i].RelPath < res.Files[j].RelPath
	})
	sort.SliceStable(res.Skipped, func(i, j int) bool {
		return res.Skipped[i].RelPath < res.Skipped[j].RelPath
	})
	return res, nil
}
