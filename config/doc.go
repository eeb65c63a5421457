// Package config handles application configuration loading and management.
//
// Configuration is stored in ~/.homefix/config.json (or config.yaml) and
// covers backend discovery: the default base URL, the candidate hosts probed
// when the backend moves, and the timeouts used for health checks and
// requests. Values can be overridden through HOMEFIX_* environment variables.
// Runtime state such as the last resolved base URL lives next to it in
// state.json.
package config
