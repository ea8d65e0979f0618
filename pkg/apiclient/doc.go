// Package apiclient delivers settings fragments to the host configuration
// API over its unix socket.
//
// Each fragment is sent as the body of
//
//	PATCH /settings?tx=bottlerocket-launch
//
// so that all boot-time settings land in one pending transaction. Committing
// the transaction is left to the host.
//
// # Usage
//
//	client := apiclient.New(apiclient.WithSocket("/run/api.sock"))
//	for _, frag := range frags {
//	    if err := client.PatchSettings(ctx, frag); err != nil {
//	        return err
//	    }
//	}
package apiclient
