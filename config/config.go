// Package config loads the session-configuration keys spec §6 names from a
// TOML file, the same format and library golang-dep uses for its own
// manifest/lock files.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Properties is the parsed, flattened form of a session's configuration:
// every leaf value addressed by its full dotted key (spec §6 "Session
// configuration"), exactly as it would be typed on a Java Properties
// object. Values are read lazily typed by the accessor methods below
// rather than up front, mirroring tomlMapper's "stop mapping on first
// error" style but spread across independent accessors instead of one
// struct literal.
type Properties struct {
	tree *toml.Tree
}

// Load reads and parses a TOML file at path into Properties.
func Load(path string) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}
	return &Properties{tree: tree}, nil
}

// Empty returns a Properties with no backing file; every accessor falls
// back to its documented default.
func Empty() *Properties {
	return &Properties{}
}

func (p *Properties) getDefault(key string, def interface{}) interface{} {
	if p == nil || p.tree == nil {
		return def
	}
	v := p.tree.GetDefault(key, def)
	if v == nil {
		return def
	}
	return v
}

func (p *Properties) stringDefault(key, def string) string {
	v, ok := p.getDefault(key, def).(string)
	if !ok {
		return def
	}
	return v
}

func (p *Properties) intDefault(key string, def int) int {
	switch v := p.getDefault(key, def).(type) {
	case int64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// SyncContextFactory is `aether.syncContext.named.factory` (spec §6);
// default "file-lock".
func (p *Properties) SyncContextFactory() string {
	return p.stringDefault("aether.syncContext.named.factory", "file-lock")
}

// SyncContextNameMapper is `aether.syncContext.named.nameMapper`; default
// "file-gaecv".
func (p *Properties) SyncContextNameMapper() string {
	return p.stringDefault("aether.syncContext.named.nameMapper", "file-gaecv")
}

// SyncContextLocksDirName is `aether.syncContext.named.basedir.locksDirName`;
// default ".locks".
func (p *Properties) SyncContextLocksDirName() string {
	return p.stringDefault("aether.syncContext.named.basedir.locksDirName", ".locks")
}

// SyncContextTimeout combines `aether.syncContext.named.time` and
// `aether.syncContext.named.time.unit`; default 30 seconds.
func (p *Properties) SyncContextTimeout() time.Duration {
	amount := p.intDefault("aether.syncContext.named.time", 30)
	unit := p.stringDefault("aether.syncContext.named.time.unit", "SECONDS")
	return time.Duration(amount) * timeUnit(unit)
}

func timeUnit(unit string) time.Duration {
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "NANOSECONDS":
		return time.Nanosecond
	case "MICROSECONDS":
		return time.Microsecond
	case "MILLISECONDS":
		return time.Millisecond
	case "MINUTES":
		return time.Minute
	case "HOURS":
		return time.Hour
	case "SECONDS":
		fallthrough
	default:
		return time.Second
	}
}

// DependencyCollectorImpl is `aether.dependencyCollector.impl`: "bf" or
// "df"; default "bf". The engine ships a single collector
// (collector_worker.go), which expands each child's whole subtree before
// moving on to the next sibling; both values are accepted and select that
// same implementation.
func (p *Properties) DependencyCollectorImpl() string {
	return p.stringDefault("aether.dependencyCollector.impl", "bf")
}

// MaxExceptions is `aether.dependencyCollector.maxExceptions`; default 50,
// negative means unbounded.
func (p *Properties) MaxExceptions() int {
	return p.intDefault("aether.dependencyCollector.maxExceptions", 50)
}

// MaxCycles is `aether.dependencyCollector.maxCycles`; default 10, negative
// means unbounded.
func (p *Properties) MaxCycles() int {
	return p.intDefault("aether.dependencyCollector.maxCycles", 10)
}

// ConflictVerbosity is `aether.conflictResolver.verbose`, returned as its
// raw string so callers needing conflict.Verbosity parse it with
// conflict.ParseVerbosity (config does not import conflict, keeping this
// leaf package dependency-free of the resolver it configures).
func (p *Properties) ConflictVerbosity() string {
	return p.stringDefault("aether.conflictResolver.verbose", "NONE")
}
