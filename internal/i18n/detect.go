// ABOUTME: LocaleProvider that detects the user's language from the environment
// ABOUTME: Mirrors browser language detection using LC_ALL, LC_MESSAGES, and LANG

package i18n

import "os"

// Provider detects the preferred locale
type Provider interface {
	Detect() Locale
}

// EnvProvider detects the locale from POSIX locale variables.
type EnvProvider struct {
	// Getenv defaults to os.Getenv
	Getenv func(string) string
}

// Detect returns Spanish when the first set locale variable names Spanish
// and English otherwise, including when nothing is set.
func (p EnvProvider) Detect() Locale {
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(name)
		if v == "" {
			continue
		}
		if loc, ok := Parse(v); ok && loc == Spanish {
			return Spanish
		}
		return English
	}
	return Default
}

// Fixed always reports the same locale
type Fixed Locale

// Detect returns the fixed locale
func (f Fixed) Detect() Locale { return Locale(f) }
