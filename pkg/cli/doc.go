// Package cli implements the early-boot-config command.
//
// # Overview
//
// early-boot-config runs once per boot. It collects user data from the
// platform compiled into the binary, turns it into settings fragments, and
// stages each fragment with the host configuration API. Nothing is retried:
// a failure is reported and the command exits non-zero.
//
// # Usage
//
//	early-boot-config [--api-socket PATH] [--log-level LEVEL]
//	early-boot-config --dry-run [--output FILE] [--format json|yaml|table]
//
// # Flags
//
//	--log-level     Logging verbosity: debug, info, warn, error (default: info)
//	--api-socket    Host configuration API socket (default: /run/api.sock)
//	--dry-run       Print fragments instead of submitting them
//	--output, -o    Dry-run output file (default: stdout)
//	--format, -t    Dry-run output format: json, yaml, table (default: json,
//	                or taken from the --output extension)
//	--metrics-file  Write provider metrics as a Prometheus textfile
//	--version, -v   Show version and compiled-in platform
//
// # Environment Variables
//
//	LOG_LEVEL                     Same as --log-level
//	EARLY_BOOT_CONFIG_API_SOCKET  Same as --api-socket
//
// # Exit Codes
//
//	0  Success, including when no user data was found
//	1  Any failure
//
// # systemd
//
// On success a STATUS= line is sent to the service manager. Outside systemd
// this is a no-op.
package cli
