// Package config loads and validates the inflamd YAML configuration.
//
// Load(path) fills missing fields with defaults before validating. Watch
// re-loads the file on change and keeps the previous configuration active
// when a reload fails. Webhook URLs are never stored in the file itself —
// the config names environment variables and the URLs are resolved at
// delivery time.
package config
