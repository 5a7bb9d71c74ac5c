package cli

import "errors"

var (
	// ErrAPIKeyMissing indicates the generation-service API key is not set.
	ErrAPIKeyMissing = errors.New("API key is not set")

	// ErrNoFeeds indicates a fetch was requested with no feeds configured.
	ErrNoFeeds = errors.New("no feeds configured")

	// ErrUnknownConfigKey indicates a config subcommand received an
	// unrecognized key.
	ErrUnknownConfigKey = errors.New("unknown config key")
)
