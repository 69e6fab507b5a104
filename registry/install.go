package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/log"
	"github.com/pagevault/pagevault/network"
)

// maxUnitSize bounds a downloaded handler unit.
const maxUnitSize = 1 << 20

// Installed describes the outcome of Install.
type Installed struct {
	Path string
	// Changed is false when the local unit already had the same content.
	Changed bool
}

// Install downloads a handler unit into dir.
//
// The download is validated with the loader for its extension before it
// replaces the local copy, and the swap is a rename. Identical content, by
// sha256, leaves the local file untouched.
func (r *Registry) Install(ctx context.Context, client *http.Client, source, dir string) (Installed, error) {
	name, err := unitName(source)
	if err != nil {
		return Installed{}, err
	}

	r.mu.RLock()
	loader, ok := r.loaders[strings.ToLower(filepath.Ext(name))]
	r.mu.RUnlock()
	if !ok {
		return Installed{}, fmt.Errorf("unsupported handler unit %q", name)
	}

	body, err := download(ctx, client, source)
	if err != nil {
		return Installed{}, err
	}

	if err := ensureHandlersDir(dir); err != nil {
		return Installed{}, err
	}

	fs := filesystem.API()
	localPath := filepath.Join(dir, name)

	if local, err := fs.ReadFile(localPath); err == nil && digest(local) == digest(body) {
		log.Infof("handler unit %s is up to date", name)
		return Installed{Path: localPath}, nil
	}

	// The reserved prefix keeps discovery away from the staged file.
	staged := filepath.Join(dir, constant.HandlerReservedPrefix+"install-"+name)
	if err := fs.WriteFile(staged, body, 0o644); err != nil {
		return Installed{}, fmt.Errorf("stage %s: %w", name, err)
	}

	validated, err := loadIsolated(loader, staged)
	if err != nil {
		_ = fs.Remove(staged)
		return Installed{}, fmt.Errorf("downloaded unit %s is invalid: %w", name, err)
	}
	release(validated...)

	if err := fs.Rename(staged, localPath); err != nil {
		_ = fs.Remove(staged)
		return Installed{}, fmt.Errorf("install %s: %w", name, err)
	}

	log.Infof("installed handler unit %s from %s", name, source)
	return Installed{Path: localPath, Changed: true}, nil
}

func unitName(source string) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if strings.Contains(u.Path, `\`) {
		return "", fmt.Errorf("backslash in handler unit path %s", source)
	}

	name := path.Base(u.Path)
	if name == "/" || name == "." || name == ".." || strings.HasPrefix(name, constant.HandlerReservedPrefix) {
		return "", fmt.Errorf("no usable file name in %s", source)
	}
	return name, nil
}

func download(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if client == nil {
		client = network.Client
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: %s", source, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUnitSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxUnitSize {
		return nil, errors.New("handler unit is too large")
	}
	return body, nil
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
