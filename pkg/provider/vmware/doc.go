// Package vmware implements a platform data provider for VMware guests.
//
// User data is looked up in two places, in order:
//
//  1. guestinfo, through the VMware backdoor. The guestinfo.userdata.encoding
//     key says how to read guestinfo.userdata: "base64" (or "b64"),
//     "gzip+base64" (or "gz+b64"), or raw text when unset. This source is
//     best effort: any failure is logged and the next source is tried.
//  2. A mounted CD-ROM, with the same file selection as package cdrom plus
//     transparent decompression. Failures here are fatal.
//
// The CD-ROM is only read when guestinfo produced nothing. In both cases the
// parsed TOML table is used as the fragment content as-is.
//
// Backdoor access is abstracted by Prober, Backdoor and Channel. On
// linux/amd64 the default prober talks to the hypervisor; elsewhere it always
// fails, which leaves the CD-ROM as the only source.
package vmware
