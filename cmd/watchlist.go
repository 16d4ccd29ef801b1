package cmd

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// watchlist is the YAML input format for bulk runs.
type watchlist struct {
	Players []string `yaml:"players"`
}

// loadWatchlist reads player names from a YAML watchlist file, skipping
// blank entries.
func loadWatchlist(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}

	var list watchlist
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist %s: %w", path, err)
	}

	var names []string
	for _, name := range list.Players {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("watchlist %s contains no players", path)
	}
	return names, nil
}
