package lua

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/davidbz/hoverlate/internal/catalog"
	"github.com/davidbz/hoverlate/internal/domain"
)

const (
	manifestFile = "manifest.json"
	defaultMain  = "init.lua"
)

// Discover returns a catalog plugin for every directory under dir holding a manifest.
// A missing dir yields no plugins. Directories are visited in name order.
func Discover(dir string) ([]catalog.Plugin, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read plugins directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	plugins := make([]catalog.Plugin, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		plugin, ok, loadErr := load(filepath.Join(dir, entry.Name()))
		if loadErr != nil {
			return nil, loadErr
		}
		if ok {
			plugins = append(plugins, plugin)
		}
	}

	return plugins, nil
}

// load reads a single plugin directory. It returns false when there is no manifest.
func load(pluginDir string) (catalog.Plugin, bool, error) {
	manifest, err := os.ReadFile(filepath.Join(pluginDir, manifestFile)) // #nosec G304 - plugin directory is operator controlled
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return catalog.Plugin{}, false, nil
		}
		return catalog.Plugin{}, false, fmt.Errorf("failed to read manifest: %w", err)
	}

	if !gjson.ValidBytes(manifest) {
		return catalog.Plugin{}, false, fmt.Errorf("invalid manifest in %s", pluginDir)
	}

	mainFile := defaultMain
	if m := gjson.GetBytes(manifest, "main"); m.String() != "" {
		mainFile = m.String()
	}
	script := filepath.Join(pluginDir, filepath.Clean("/" + mainFile)[1:])

	return catalog.Plugin{
		ID:       pluginID(manifest, filepath.Base(pluginDir)),
		Manifest: manifest,
		Activate: func(_ context.Context) (domain.Provider, error) {
			provider, loadErr := NewProvider(script)
			if loadErr != nil {
				return nil, loadErr
			}
			return provider, nil
		},
	}, true, nil
}

// pluginID derives the plugin identifier from the manifest.
func pluginID(manifest []byte, fallback string) string {
	if id := gjson.GetBytes(manifest, "id").String(); id != "" {
		return id
	}

	publisher := gjson.GetBytes(manifest, "publisher").String()
	name := gjson.GetBytes(manifest, "name").String()
	if publisher != "" && name != "" {
		return publisher + "." + name
	}

	return fallback
}
