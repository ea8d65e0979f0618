// Package defaults provides centralized configuration constants for
// early-boot-config.
//
// This package defines paths, timeouts, and limits used across the codebase.
// Centralizing these values keeps the boot-time behavior in one place.
//
// # Categories
//
//   - API client: socket path, launch transaction, request timeouts
//   - Providers: overall acquisition timeout
//   - Logging: user data trace limit
//
// # Usage
//
//	import "github.com/NVIDIA/early-boot-config/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ProviderTimeout)
//	defer cancel()
package defaults
