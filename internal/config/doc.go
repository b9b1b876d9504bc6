// Package config loads, normalizes, and validates StudioHub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// segments), applies environment fallbacks, and reports actionable errors when
// required settings are missing. Always obtain settings through this package
// so every component sees the same resolved paths and policy flags.
package config
