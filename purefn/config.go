package purefn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/on-the-ground/memo_ive_go/purefn/configkeys"
)

// Config holds the per-function memoization modes.
type Config struct {
	KeyMode    KeyMode
	ThreadMode ThreadMode
	Lifetime   LifetimeMode

	// MaxEntries bounds the table. 0 means unbounded.
	MaxEntries int
}

// DefaultConfig returns ref keys, single-goroutine storage and problem lifetime.
func DefaultConfig() Config {
	return Config{
		KeyMode:    KeyRef,
		ThreadMode: ThreadSingle,
		Lifetime:   LifetimeProblem,
	}
}

// Validate rejects modes outside the enumerated sets.
func (c Config) Validate() error {
	if !c.KeyMode.valid() {
		return fmt.Errorf("%w: key mode %q", ErrUnknownMode, c.KeyMode)
	}
	if !c.ThreadMode.valid() {
		return fmt.Errorf("%w: thread mode %q", ErrUnknownMode, c.ThreadMode)
	}
	if !c.Lifetime.valid() {
		return fmt.Errorf("%w: lifetime %q", ErrUnknownMode, c.Lifetime)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("purefn: max entries must not be negative, got %d", c.MaxEntries)
	}
	return nil
}

// ParseConfig reads a comma separated token list such as
//
//	key=ptr, lifetime=program, multi
//
// Recognized tokens are key=<ptr|ref|val>, lifetime=<problem|program>,
// thread=<single|multi>, the bare words single and multi, and bare key modes
// (including the aliases light, normal and heavy). Unset modes keep their
// defaults; the last occurrence of a token wins.
func ParseConfig(s string) (Config, error) {
	cfg := DefaultConfig()
	for _, raw := range strings.Split(s, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		name, value, hasValue := strings.Cut(tok, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)

		var err error
		switch {
		case hasValue && name == "key":
			cfg.KeyMode, err = ParseKeyMode(value)
		case hasValue && name == "lifetime":
			cfg.Lifetime, err = ParseLifetimeMode(value)
		case hasValue && name == "thread":
			cfg.ThreadMode, err = ParseThreadMode(value)
		case hasValue:
			err = fmt.Errorf("%w: option %q", ErrUnknownMode, name)
		case name == string(ThreadSingle) || name == string(ThreadMulti):
			cfg.ThreadMode = ThreadMode(name)
		default:
			cfg.KeyMode, err = ParseKeyMode(name)
		}
		if err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// ConfigFromMap builds a Config from the dotted keys in configkeys.
// Missing keys keep their defaults.
func ConfigFromMap(m map[string]string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if v, ok := m[configkeys.ConfigMemoKeyMode]; ok {
		if cfg.KeyMode, err = ParseKeyMode(v); err != nil {
			return Config{}, err
		}
	}
	if v, ok := m[configkeys.ConfigMemoThreadMode]; ok {
		if cfg.ThreadMode, err = ParseThreadMode(v); err != nil {
			return Config{}, err
		}
	}
	if v, ok := m[configkeys.ConfigMemoLifetime]; ok {
		if cfg.Lifetime, err = ParseLifetimeMode(v); err != nil {
			return Config{}, err
		}
	}
	if v, ok := m[configkeys.ConfigMemoTableMaxEntries]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("purefn: %s: %w", configkeys.ConfigMemoTableMaxEntries, err)
		}
		cfg.MaxEntries = n
	}
	return cfg, cfg.Validate()
}
