// Package config resolves the layered run-time settings of a review run:
// built-in defaults, then the settings file (DEFAULT section followed by a
// section named after the repository), then explicit overrides. Every write
// goes through the same validated per-field setter regardless of source.
package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/critic-tools/critic/domain"
	"gopkg.in/ini.v1"
)

// Defaults applied before any file or override is consulted
const (
	// DefaultLogLevel is used when neither the settings file nor an
	// override names a level
	DefaultLogLevel = "ERROR"

	// DefaultPRIssueReportLimit caps how many new issues a single pull
	// request review may report
	DefaultPRIssueReportLimit = 128
)

// Field names form the closed set accepted by Set and Override. They match
// the keys recognized in the settings file 1:1.
const (
	FieldRepository         = "repository"
	FieldDebug              = "debug"
	FieldLogLevel           = "log_level"
	FieldExcludePaths       = "exclude_paths"
	FieldLimitUsers         = "limit_users"
	FieldPRIssueReportLimit = "pr_issue_report_limit"
	FieldPullRequests       = "pull_requests"
	FieldStartEvent         = "start_event"
)

// fieldNames is kept sorted; String() and Override() rely on the order.
var fieldNames = []string{
	FieldDebug,
	FieldExcludePaths,
	FieldLimitUsers,
	FieldLogLevel,
	FieldPRIssueReportLimit,
	FieldPullRequests,
	FieldRepository,
	FieldStartEvent,
}

// FieldNames returns the closed set of configuration fields, sorted
func FieldNames() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames)
	return names
}

var repositoryPattern = regexp.MustCompile(`^[^/]+/[^/]+$`)

// ValidRepository reports whether s matches the owner/name pattern
func ValidRepository(s string) bool {
	return repositoryPattern.MatchString(s)
}

var logLevels = map[string]bool{
	"DEBUG":    true,
	"INFO":     true,
	"WARNING":  true,
	"ERROR":    true,
	"CRITICAL": true,
}

var (
	truthyTokens = map[string]bool{"1": true, "true": true, "t": true, "yes": true, "y": true, "on": true}
	falsyTokens  = map[string]bool{"0": true, "false": true, "f": true, "no": true, "n": true, "off": true}
)

// Config holds the validated settings for one review run. It is not safe
// for concurrent mutation; the owning caller serializes access.
type Config struct {
	repository         string
	debug              bool
	logLevel           string
	excludePaths       map[string]struct{}
	limitUsers         map[string]struct{}
	pullRequests       map[string]struct{}
	prIssueReportLimit int
	startEvent         *int
}

// New builds a Config from defaults, the settings file at path (an empty
// path or a missing/unreadable file means "no file"), and explicit
// overrides applied last through the validated setters.
//
// The repository is the explicit argument when non-empty, otherwise the
// DEFAULT section's repository key. Construction fails with a configuration
// error when neither yields a valid owner/name string, or when a present
// file carries malformed typed values.
func New(repository, path string, overrides map[string]any) (*Config, error) {
	c := &Config{
		logLevel:           DefaultLogLevel,
		prIssueReportLimit: DefaultPRIssueReportLimit,
	}

	var file *ini.File
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			f, err := ini.Load(path)
			if err != nil {
				return nil, domain.NewConfigError(fmt.Sprintf("cannot parse settings file %s", path), err)
			}
			file = f
		}
	}

	if repository == "" && file != nil {
		repository = file.Section(ini.DefaultSection).Key(FieldRepository).String()
	}
	if repository == "" {
		return nil, domain.NewConfigError("no repository configured (pass one explicitly or set it in the settings file)", nil)
	}
	if err := c.Set(FieldRepository, repository); err != nil {
		return nil, err
	}

	if file != nil {
		if err := c.applySection(file.Section(ini.DefaultSection)); err != nil {
			return nil, err
		}
		if sec, err := file.GetSection(c.repository); err == nil {
			if err := c.applySection(sec); err != nil {
				return nil, err
			}
		}
	}

	if err := c.Override(overrides); err != nil {
		return nil, err
	}
	return c, nil
}

// applySection feeds recognized keys through Set in file order. Unknown
// keys are ignored; the repository key is consumed during resolution only.
func (c *Config) applySection(sec *ini.Section) error {
	for _, key := range sec.Keys() {
		name := key.Name()
		if name == FieldRepository || !knownField(name) {
			continue
		}
		if err := c.Set(name, key.String()); err != nil {
			return err
		}
	}
	return nil
}

func knownField(name string) bool {
	for _, f := range fieldNames {
		if f == name {
			return true
		}
	}
	return false
}

// Set validates and stores a single field. Text values are coerced per
// field type before validation, so file contents and already-typed override
// values share one path. On error the field keeps its prior value.
func (c *Config) Set(field string, value any) error {
	switch field {
	case FieldRepository:
		s, err := coerceString(field, value)
		if err != nil {
			return err
		}
		if !repositoryPattern.MatchString(s) {
			return domain.NewConfigError(fmt.Sprintf("invalid repository %q (want owner/name)", s), nil)
		}
		c.repository = s
	case FieldDebug:
		b, err := coerceBool(field, value)
		if err != nil {
			return err
		}
		c.debug = b
	case FieldLogLevel:
		s, err := coerceString(field, value)
		if err != nil {
			return err
		}
		level := strings.ToUpper(strings.TrimSpace(s))
		if !logLevels[level] {
			return domain.NewConfigError(fmt.Sprintf("invalid log level %q (must be one of: DEBUG, INFO, WARNING, ERROR, CRITICAL)", s), nil)
		}
		c.logLevel = level
	case FieldExcludePaths:
		set, err := coerceSet(field, value)
		if err != nil {
			return err
		}
		c.excludePaths = set
	case FieldLimitUsers:
		set, err := coerceSet(field, value)
		if err != nil {
			return err
		}
		c.limitUsers = set
	case FieldPullRequests:
		set, err := coerceSet(field, value)
		if err != nil {
			return err
		}
		c.pullRequests = set
	case FieldPRIssueReportLimit:
		n, err := coerceInt(field, value)
		if err != nil {
			return err
		}
		if n < 0 {
			return domain.NewConfigError(fmt.Sprintf("%s must be >= 0, got %d", field, n), nil)
		}
		c.prIssueReportLimit = n
	case FieldStartEvent:
		n, err := coerceInt(field, value)
		if err != nil {
			return err
		}
		c.startEvent = &n
	default:
		return domain.NewConfigError(fmt.Sprintf("unknown configuration field %q", field), nil)
	}
	return nil
}

// Override applies a mapping of field name to value through Set. Entries
// are applied in sorted field-name order so the abort point is
// deterministic; the first invalid entry aborts the remainder and
// already-applied entries are kept.
func (c *Config) Override(overrides map[string]any) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.Set(name, overrides[name]); err != nil {
			return err
		}
	}
	return nil
}

// Repository returns the owner/name the run operates on
func (c *Config) Repository() string { return c.repository }

// Debug reports whether debug mode is enabled
func (c *Config) Debug() bool { return c.debug }

// LogLevel returns the observable log level. While debug is enabled it
// reads as DEBUG; the stored value becomes visible again once debug is
// cleared.
func (c *Config) LogLevel() string {
	if c.debug {
		return "DEBUG"
	}
	return c.logLevel
}

// ExcludePaths returns the configured exclusion patterns sorted, or nil
// when unset
func (c *Config) ExcludePaths() []string { return sortedMembers(c.excludePaths) }

// LimitUsers returns the configured author whitelist sorted, or nil when
// unset (meaning all users are allowed)
func (c *Config) LimitUsers() []string { return sortedMembers(c.limitUsers) }

// PullRequests returns the configured pull request filter sorted, or nil
// when unset
func (c *Config) PullRequests() []string { return sortedMembers(c.pullRequests) }

// PRIssueReportLimit returns the cap on new issues per review pass
func (c *Config) PRIssueReportLimit() int { return c.prIssueReportLimit }

// StartEvent returns the configured resume event, if set
func (c *Config) StartEvent() (int, bool) {
	if c.startEvent == nil {
		return 0, false
	}
	return *c.startEvent, true
}

// UserWhitelisted reports whether the username may trigger a review. An
// unset limit_users allows everyone.
func (c *Config) UserWhitelisted(username string) bool {
	if c.limitUsers == nil {
		return true
	}
	_, ok := c.limitUsers[username]
	return ok
}

// PullRequestSelected reports whether the pull request number passes the
// pull_requests filter. An unset filter selects everything.
func (c *Config) PullRequestSelected(number int) bool {
	if c.pullRequests == nil {
		return true
	}
	_, ok := c.pullRequests[strconv.Itoa(number)]
	return ok
}

// Fields returns every field and its observable value, keyed by field name
func (c *Config) Fields() map[string]any {
	var startEvent any
	if c.startEvent != nil {
		startEvent = *c.startEvent
	}
	return map[string]any{
		FieldRepository:         c.repository,
		FieldDebug:              c.debug,
		FieldLogLevel:           c.LogLevel(),
		FieldExcludePaths:       c.ExcludePaths(),
		FieldLimitUsers:         c.LimitUsers(),
		FieldPullRequests:       c.PullRequests(),
		FieldPRIssueReportLimit: c.prIssueReportLimit,
		FieldStartEvent:         startEvent,
	}
}

// String renders every field and its observable value, sorted by field
// name. The rendering is deterministic and suitable for golden tests.
func (c *Config) String() string {
	fields := c.Fields()
	parts := make([]string, 0, len(fieldNames))
	for _, name := range fieldNames {
		parts = append(parts, fmt.Sprintf("%s=%s", name, renderValue(fields[name])))
	}
	return fmt.Sprintf("Config(%s)", strings.Join(parts, ", "))
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "<unset>"
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case string:
		return val
	case []string:
		if val == nil {
			return "<unset>"
		}
		return "{" + strings.Join(val, ",") + "}"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortedMembers(set map[string]struct{}) []string {
	if set == nil {
		return nil
	}
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}

func coerceString(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", domain.NewConfigError(fmt.Sprintf("%s expects a string, got %T", field, value), nil)
	}
	return s, nil
}

func coerceBool(field string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		token := strings.ToLower(strings.TrimSpace(v))
		if truthyTokens[token] {
			return true, nil
		}
		if falsyTokens[token] {
			return false, nil
		}
		return false, domain.NewConfigError(fmt.Sprintf("malformed boolean %q for %s", v, field), nil)
	default:
		return false, domain.NewConfigError(fmt.Sprintf("%s expects a boolean, got %T", field, value), nil)
	}
}

func coerceInt(field string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, domain.NewConfigError(fmt.Sprintf("malformed integer %q for %s", v, field), err)
		}
		return n, nil
	default:
		return 0, domain.NewConfigError(fmt.Sprintf("%s expects an integer, got %T", field, value), nil)
	}
}

// coerceSet normalizes comma-separated text, slices, and sets into a
// member set. Surrounding whitespace is trimmed and empty tokens dropped;
// a result with no members stores as unset.
func coerceSet(field string, value any) (map[string]struct{}, error) {
	var tokens []string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		tokens = strings.Split(v, ",")
	case []string:
		tokens = v
	case map[string]struct{}:
		for m := range v {
			tokens = append(tokens, m)
		}
	default:
		return nil, domain.NewConfigError(fmt.Sprintf("%s expects comma-separated text or a set of strings, got %T", field, value), nil)
	}

	set := make(map[string]struct{})
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		set[token] = struct{}{}
	}
	if len(set) == 0 {
		return nil, nil
	}
	return set, nil
}
