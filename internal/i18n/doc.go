// Package i18n holds the read-only translation tables and locale detection.
//
// Two locales are supported, English ("en") and Spanish ("es"). Anything
// else resolves to English.
package i18n
