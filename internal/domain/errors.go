package domain

import "errors"

var (
	// ErrNotConfigured indicates no translation provider identifier is configured.
	ErrNotConfigured = errors.New("translation provider not configured")

	// ErrProviderNotFound indicates the configured identifier does not resolve to an installed plugin.
	ErrProviderNotFound = errors.New("translation provider not found")

	// ErrActivationFailed indicates the plugin did not yield a usable provider.
	ErrActivationFailed = errors.New("translation provider failed to load")

	// ErrNoTranslation indicates the provider returned no translation for a text.
	ErrNoTranslation = errors.New("no translation")
)
