// Package settings builds the normalized settings fragments handed to the
// host configuration API.
//
// A SettingsJSON is an immutable, table-shaped JSON document plus an origin
// label used only in diagnostics. Providers construct one per user data
// source from a parsed TOML table:
//
//	frag, err := settings.FromTOMLString(text, "user data")
//
// or, for sources that wrap their content in a top-level "settings" table:
//
//	frag, err := settings.FromTOMLSettingsString(text, "user data")
//
// Errors match one of ErrTOMLParse, ErrNotTable, ErrMissingSettings or
// ErrJSONEncode so callers can tell the failure shapes apart.
package settings
