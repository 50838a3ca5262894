package app

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	errOutsideWorkspace = errors.New("path is outside the workspace")
	errApplyNeedsSecret = errors.New("apply jobs require api_secret")
)

// workspacePath resolves a job path against the configured workspace and
// rejects anything that escapes it, including through symlinks.
func (s *Server) workspacePath(path string) (string, error) {
	root, err := filepath.Abs(cmp.Or(s.cfg.Workspace, "."))
	if err != nil {
		return "", fmt.Errorf("workspace: %w", err)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	if !within(root, path) {
		return "", fmt.Errorf("%w: %s", errOutsideWorkspace, path)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("workspace: %w", err)
	}
	realPath, err := filepath.EvalSymlinks(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// the worker reports the missing file
		return path, nil
	case err != nil:
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if !within(realRoot, realPath) {
		return "", fmt.Errorf("%w: %s", errOutsideWorkspace, path)
	}
	return path, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
