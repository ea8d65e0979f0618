// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vmware

// Prober acquires access to the VMware backdoor.
type Prober interface {
	// ProbePrivileged acquires access using raised I/O privileges. It fails
	// under kernel lockdown, in which case Probe is tried instead. A failed
	// call holds no resources.
	ProbePrivileged() (Backdoor, error)

	// Probe acquires access without raising privileges.
	Probe() (Backdoor, error)
}

// Backdoor is acquired access to the hypervisor backdoor.
type Backdoor interface {
	// Open opens an RPC channel over the backdoor.
	Open() (Channel, error)

	// Close releases the backdoor.
	Close() error
}

// Channel is an open RPC channel to the hypervisor.
type Channel interface {
	// GuestInfo returns the value of a guestinfo key. The second result is
	// false when the key is not set, which is not an error.
	GuestInfo(key string) ([]byte, bool, error)

	// Close closes the channel.
	Close() error
}
