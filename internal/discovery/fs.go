package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoJenkinsfile indicates that no Jenkinsfile was found under the root.
var ErrNoJenkinsfile = errors.New("no Jenkinsfile found")

// candidatePaths are checked before falling back to a recursive walk.
var candidatePaths = []string{
	"Jenkinsfile",
	"jenkins/Jenkinsfile",
	".jenkins/Jenkinsfile",
	"ci/Jenkinsfile",
}

// Jenkinsfile returns the path of the pipeline definition under root.
// Common locations are preferred; otherwise the first Jenkinsfile found by
// walking the tree wins.
func Jenkinsfile(root string) (string, error) {
	for _, cand := range candidatePaths {
		full := filepath.Join(root, cand)
		info, err := os.Stat(full)
		if err == nil && !info.IsDir() {
			return full, nil
		}
	}

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == "Jenkinsfile" {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %q: %w", root, err)
	}
	if found == "" {
		return "", ErrNoJenkinsfile
	}
	return found, nil
}

// Outputs locates generated documents under root for publishing: every
// file named like the given document, paired with a sibling summary.json
// when one exists (the parent directory is also checked).
func Outputs(root, docName string) ([]Output, error) {
	var outputs []Output
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != docName {
			return nil
		}
		out := Output{DocumentPath: path, Slug: slugFor(path)}
		dir := filepath.Dir(path)
		for _, cand := range []string{
			filepath.Join(dir, "summary.json"),
			filepath.Join(filepath.Dir(dir), "summary.json"),
		} {
			if info, statErr := os.Stat(cand); statErr == nil && !info.IsDir() {
				out.SummaryPath = cand
				break
			}
		}
		outputs = append(outputs, out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}
	return outputs, nil
}

// Output is one generated document plus its optional summary sidecar.
type Output struct {
	DocumentPath string
	SummaryPath  string
	Slug         string
}

// slugFor derives an identifier from the closest meaningful directory.
func slugFor(docPath string) string {
	dir := filepath.Dir(docPath)
	return strings.TrimPrefix(filepath.Base(dir), "ado-yaml-")
}
