// Package cdrom implements a platform data provider that reads user data from
// a mounted CD-ROM.
//
// The volume is expected to be mounted before this program runs. It may hold
// at most one of a fixed list of files:
//
//	user-data      TOML user data
//	ovf-env.xml    OVF environment with base64 user data in a "user-data" property
//	OVF-ENV.XML
//	ovf_env.xml
//	OVF_ENV.XML
//
// No file is not an error. More than one file is. The TOML user data must wrap
// its content in a top-level "settings" table, which is removed before the
// fragment is built.
//
// Source holds the file selection and decoding logic on its own so other
// providers can reuse it with decompression enabled.
package cdrom
