// Package errors provides the structured error type shared by all platform
// data providers.
//
// Every fatal provider failure is a *StructuredError whose Code names the
// failure kind (ambiguous source, unsupported format, malformed payload,
// channel failure, read failure). Benign absence of user data is never an
// error: providers return an empty result instead.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeReadFailed,
//	    "unable to read input file",
//	    err,
//	    map[string]any{
//	        "path": path,
//	    },
//	)
//
//	if code, ok := errors.CodeOf(err); ok && code == errors.ErrCodeAmbiguousSource {
//	    // more than one candidate file was present
//	}
package errors
