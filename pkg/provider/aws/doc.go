// Package aws implements a platform data provider backed by the EC2 instance
// metadata service (IMDS).
//
// Two fragments may be produced, in this order:
//
//   - {aws = {region = "<region>"}}, from the instance identity document
//   - the user data, decompressed if needed and parsed as a TOML table
//
// The region fragment comes first so user data can override it. A 404 from
// the metadata service means the item is not set and is not an error. Any
// other failure to reach the service is fatal.
package aws
