package registry

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/paths"
	"github.com/arthur-debert/dotty/pkg/profile"
	"github.com/arthur-debert/dotty/pkg/repository"
	"gopkg.in/yaml.v3"
)

// maxImportSize bounds a fetched import document
const maxImportSize = 1 << 20

// Installer checks out and bootstraps a newly added repository
type Installer interface {
	Install(ctx context.Context, repo *repository.Repository) error
}

// ImportResult lists what an import did
type ImportResult struct {
	Added   []string
	Skipped []string
}

// Import reads a document of the form {name: {url: ...}} from a local
// path or an http(s) URL, and adds and installs every repository whose
// name is not taken yet.
func (r *Registry) Import(ctx context.Context, location string, timeout time.Duration, installer Installer) (*ImportResult, error) {
	data, err := r.fetch(ctx, location, timeout)
	if err != nil {
		return nil, err
	}

	var entries profile.Repositories
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, errors.ErrImport, "failed to parse repositories at '%s'", location)
	}
	if len(entries) == 0 {
		return nil, errors.Newf(errors.ErrImport, "didn't find any repositories at '%s'", location)
	}

	result := &ImportResult{}
	for _, entry := range entries {
		// names are stored lowercased, as with add and create
		name := strings.ToLower(entry.Name)
		if r.Find(name) != nil {
			r.logger.Warn().
				Str("repository", name).
				Msg("Not adding repository, one with that name already exists")
			result.Skipped = append(result.Skipped, name)
			continue
		}
		repo, err := r.Add(name, entry.URL)
		if err != nil {
			return result, err
		}
		if err := installer.Install(ctx, repo); err != nil {
			return result, err
		}
		result.Added = append(result.Added, name)
	}
	return result, nil
}

func (r *Registry) fetch(ctx context.Context, location string, timeout time.Duration) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return fetchURL(ctx, location, timeout)
	}

	path := paths.ExpandHome(strings.TrimPrefix(location, "file://"))
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImport, "failed to read '%s'", location)
	}
	return data, nil
}

func fetchURL(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImport, "invalid import location '%s'", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImport, "failed to fetch '%s'", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrImport, "failed to fetch '%s': %s", url, resp.Status).
			WithDetail("status", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImportSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImport, "failed to read '%s'", url)
	}
	if len(data) > maxImportSize {
		return nil, errors.Newf(errors.ErrImport, "import document at '%s' is larger than %d bytes", url, maxImportSize)
	}
	return data, nil
}
