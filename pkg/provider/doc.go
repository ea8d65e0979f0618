// Package provider defines the platform data provider contract and the driver
// that runs the providers compiled into a build.
//
// A Provider produces an ordered list of settings fragments from one
// platform source. Absence of data is an empty list, not an error. Later
// fragments are meant to be merged over earlier ones by the caller.
//
// # Platform Selection
//
// Exactly one platform is compiled in, chosen with a build tag:
//
//	(none)            local:   local file
//	platform_aws      aws:     instance metadata service
//	platform_aws_dev  aws-dev: local file, then instance metadata service
//	platform_cdrom    cdrom:   mounted CD-ROM
//	platform_vmware   vmware:  guestinfo, falling back to a mounted CD-ROM
//
// Setting more than one tag does not compile.
//
// # Usage
//
//	frags, err := provider.Run(ctx)
//	if err != nil {
//	    var perr *provider.Error
//	    if errors.As(err, &perr) {
//	        // perr.Provider failed, perr.Cause holds the details
//	    }
//	}
//
// # Metrics
//
// Collect records per-provider duration, fragment count and error count in
// the default Prometheus registry. WriteMetrics dumps the registry as a
// node-exporter textfile, since the process exits before it could be scraped.
package provider
