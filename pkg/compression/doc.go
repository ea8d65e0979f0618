// Package compression provides transparent decompression of user data.
//
// User data may arrive compressed to fit platform size limits. Callers hand
// this package bytes, a file, or a stream; if the content starts with a known
// compression magic number it is decompressed, otherwise it is returned
// unchanged. Detection is by content, never by file name.
//
// Supported formats:
//   - gzip (1f 8b)
//   - zstd (28 b5 2f fd)
//   - LZ4 frame (04 22 4d 18)
//
// Usage:
//
//	data, err := compression.ExpandFileMaybe("/etc/early-boot-config/user-data")
//	if err != nil {
//	    if errors.Is(err, compression.ErrDecompress) {
//	        // content looked compressed but was corrupt
//	    }
//	    return err
//	}
package compression
