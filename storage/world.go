package storage

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"stash/host"
)

// DefaultWorldID is used when nothing identifies the world.
const DefaultWorldID = "default"

// WorldID derives the per-world directory name:
//   - multiplayer: "mp_" + sanitized server name
//   - singleplayer: the save's directory name
//   - otherwise: dimension plus rounded spawn coordinates
//   - last resort: "default"
func WorldID(info host.WorldInfo) string {
	if info.Multiplayer {
		if name := SanitizeID(info.ServerName); name != "" {
			return "mp_" + name
		}
	} else if dir := SanitizeID(filepath.Base(info.SaveDir)); info.SaveDir != "" && dir != "" {
		return dir
	}

	if dim := SanitizeID(info.Dimension); dim != "" {
		return fmt.Sprintf("%s_%d_%d_%d", dim,
			int64(math.Round(info.SpawnX)),
			int64(math.Round(info.SpawnY)),
			int64(math.Round(info.SpawnZ)))
	}
	return DefaultWorldID
}

// SanitizeID keeps [A-Za-z0-9_-.] and replaces everything else with '_'.
// Leading/trailing underscores and dots are trimmed so the result is a safe
// single path segment.
func SanitizeID(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_.")

	// Limit length
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}

// WorldDir returns {hostConfigRoot}/{namespace}/worlds/{worldID}.
func WorldDir(hostConfigRoot, namespace, worldID string) string {
	return filepath.Join(hostConfigRoot, namespace, "worlds", worldID)
}

// FolderFilePath returns the JSON folder file for a world.
func FolderFilePath(hostConfigRoot, namespace, worldID string) string {
	return filepath.Join(WorldDir(hostConfigRoot, namespace, worldID), "folders.json")
}

// FolderDBPath returns the SQLite folder database for a world.
func FolderDBPath(hostConfigRoot, namespace, worldID string) string {
	return filepath.Join(WorldDir(hostConfigRoot, namespace, worldID), "folders.db")
}

// Storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// OpenPersister picks the persister for a storage driver.
func OpenPersister(driver, hostConfigRoot, namespace, worldID string) (Persister, error) {
	switch driver {
	case "", DriverJSON:
		return NewJSONFile(FolderFilePath(hostConfigRoot, namespace, worldID)), nil
	case DriverSQLite:
		return NewSQLiteFile(FolderDBPath(hostConfigRoot, namespace, worldID))
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}
