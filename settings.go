package iniedit

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gopasspw/gopass/pkg/appdir"
	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
)

const (
	settingsName   = "iniedit"
	systemSettings = "/etc/iniedit/config"
	globalSettings = ".inieditrc"
	localSettings  = ".iniedit"
	envPrefix      = "INIEDIT"
)

// Settings keys understood by the iniedit command.
const (
	KeyIgnoreCase = "core.ignore-case"
	KeyGlob       = "core.glob"
	KeyColor      = "core.color"
)

// settingsOptions are used for everything settings related. Setting names
// are case-insensitive.
var settingsOptions = Options{IgnoreCase: true}

// Settings holds the defaults of the iniedit tool, read from several scopes.
//
// Scope Priority (highest to lowest):
// 1. Environment variables (INIEDIT_IGNORE_CASE, INIEDIT_GLOB, INIEDIT_COLOR)
// 2. Local settings (<workdir>/.iniedit)
// 3. Global/user settings ($XDG_CONFIG_HOME/iniedit/config or ~/.inieditrc)
// 4. System settings (/etc/iniedit/config)
//
// Every scope is an INI file like the ones iniedit edits:
//
//	[core]
//	ignore-case = true
//	glob = false
//	color = auto
//
// Scopes are combined with Merge, the higher scope being the "from" side.
//
// Usage:
//
//	s := NewSettings()
//	s.LoadAll(".")
//	opts := s.Options()
type Settings struct {
	system    Document
	global    Document
	local     Document
	env       Document
	effective Document
	workdir   string

	Name           string
	SystemSettings string
	GlobalSettings string
	LocalSettings  string
	EnvPrefix      string
}

// NewSettings creates a Settings instance with the default locations. The
// returned instance is empty until LoadAll is called.
//
// The locations can be customized before calling LoadAll:
//
//	s := NewSettings()
//	s.SystemSettings = ""
//	s.EnvPrefix = "MYTOOL"
//	s.LoadAll(".")
func NewSettings() *Settings {
	return &Settings{
		Name:           settingsName,
		SystemSettings: systemSettings,
		GlobalSettings: globalSettings,
		LocalSettings:  localSettings,
		EnvPrefix:      envPrefix,
	}
}

// String implements fmt.Stringer for debugging.
func (s *Settings) String() string {
	return fmt.Sprintf("Settings{Name: %s - Workdir: %s - Env: %s - System: %s - Global: %s - Local: %s}", s.Name, s.workdir, s.EnvPrefix, s.SystemSettings, s.GlobalSettings, s.LocalSettings)
}

// LoadAll loads all scopes from their configured locations.
//
// Behavior:
// - Missing or invalid files are skipped (logged at debug level)
// - workdir is optional; if empty, no local settings are loaded
// - <EnvPrefix>_NOSYSTEM disables the system scope
//
// LoadAll never fails and returns s for chaining.
func (s *Settings) LoadAll(workdir string) *Settings {
	s.workdir = workdir

	debug.Log("Loading settings for %s", s.Name)

	s.system = nil
	if os.Getenv(s.EnvPrefix+"_NOSYSTEM") == "" && s.SystemSettings != "" {
		s.system = s.loadScope("system", s.SystemSettings)
	}

	s.global = s.loadGlobal()

	s.local = nil
	if workdir != "" && s.LocalSettings != "" {
		s.local = s.loadScope("local", filepath.Join(workdir, s.LocalSettings))
	}

	s.env = s.loadEnv()

	s.effective = s.system
	for _, scope := range []Document{s.global, s.local, s.env} {
		s.effective = Merge(settingsOptions, scope, s.effective)
	}

	debug.V(3).Log("[%s] effective settings:\n%s", s.Name, s.effective)

	return s
}

func (s *Settings) loadScope(scope, fn string) Document {
	doc, err := LoadFile(fn)
	if err != nil {
		debug.V(1).Log("[%s] failed to load %s settings from %s: %s", s.Name, scope, fn, err)

		return nil
	}

	debug.V(1).Log("[%s] loaded %s settings from %s", s.Name, scope, fn)

	return doc
}

// loadGlobal tries the per-user locations in order and uses the first one
// that can be loaded.
func (s *Settings) loadGlobal() Document {
	locs := []string{
		filepath.Join(appdir.New(s.Name).UserConfig(), "config"),
	}
	if s.GlobalSettings != "" {
		locs = append(locs, filepath.Join(appdir.UserHome(), s.GlobalSettings))
	}

	for _, p := range locs {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if doc := s.loadScope("global", p); doc != nil {
			return doc
		}
	}

	debug.V(1).Log("[%s] no global settings found in %v", s.Name, locs)

	return nil
}

// loadEnv builds a document from the <EnvPrefix>_* variables.
func (s *Settings) loadEnv() Document {
	var doc Document
	for _, key := range []string{KeyIgnoreCase, KeyGlob, KeyColor} {
		_, name := splitKey(key)
		envVar := s.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		value, found := os.LookupEnv(envVar)
		if !found {
			continue
		}

		var err error
		doc, err = setKey(doc, key, value)
		if err != nil {
			debug.V(1).Log("[%s] ignoring %s: %s", s.Name, envVar, err)

			continue
		}
		debug.V(3).Log("[%s] added %s from env", s.Name, key)
	}

	return doc
}

// Get returns the effective value of a "section.key" setting.
func (s *Settings) Get(key string) (string, bool) {
	section, name := splitKey(key)

	return Get(settingsOptions, s.effective, ParseIdentifier(section), ParseIdentifier(name))
}

// Bool returns the effective value of key as a boolean. Missing or
// unparsable values are false.
func (s *Settings) Bool(key string) bool {
	v, found := s.Get(key)
	if !found {
		return false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		debug.V(1).Log("[%s] invalid boolean %q for %s: %s", s.Name, v, key, err)

		return false
	}

	return b
}

// Options returns the comparison options configured by the settings.
func (s *Settings) Options() Options {
	return Options{IgnoreCase: s.Bool(KeyIgnoreCase)}
}

// Glob reports whether selectors should be parsed as glob patterns.
func (s *Settings) Glob() bool {
	return s.Bool(KeyGlob)
}

// Color returns the configured color mode (auto, always or never).
func (s *Settings) Color() string {
	v, found := s.Get(KeyColor)
	if !found || v == "" {
		return "auto"
	}

	return strings.ToLower(v)
}

// Keys returns all effective settings keys as sorted "section.key" strings.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, 16)
	for _, sec := range s.effective {
		for _, item := range sec.Items {
			prop, ok := item.(Property)
			if !ok {
				continue
			}
			keys = append(keys, joinKey(sec.Name.String(), prop.Key.String()))
		}
	}

	return set.Sorted(set.Apply(keys, strings.ToLower))
}

// KVList returns all effective settings as sorted "section.key<sep>value"
// strings.
func (s *Settings) KVList(sep string) []string {
	if sep == "" {
		sep = "="
	}

	keys := s.Keys()
	kv := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := s.Get(k)
		kv = append(kv, k+sep+v)
	}

	return kv
}

// setKey sets a "section.key" in doc.
func setKey(doc Document, key, value string) (Document, error) {
	section, name := splitKey(key)

	return Set(settingsOptions, doc, ParseIdentifier(section), ParseIdentifier(name), value)
}
