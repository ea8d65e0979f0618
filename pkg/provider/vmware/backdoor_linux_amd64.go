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

//go:build linux && amd64

package vmware

import (
	stderrors "errors"
	"fmt"

	"github.com/klauspost/cpuid/v2"
	"github.com/vmware/vmw-guestinfo/rpcout"
	"golang.org/x/sys/unix"
)

// ioplBackdoor is the I/O privilege level needed for the backdoor ports.
const ioplBackdoor = 3

var errNotVMware = stderrors.New("not running on a VMware hypervisor")

func defaultProber() Prober {
	return hostProber{}
}

// hostProber reaches the hypervisor through the backdoor I/O port.
type hostProber struct{}

func (hostProber) ProbePrivileged() (Backdoor, error) {
	if err := checkHypervisor(); err != nil {
		return nil, err
	}
	if err := unix.Iopl(ioplBackdoor); err != nil {
		return nil, fmt.Errorf("failed to raise I/O privilege level: %w", err)
	}
	return &hostBackdoor{privileged: true}, nil
}

func (hostProber) Probe() (Backdoor, error) {
	if err := checkHypervisor(); err != nil {
		return nil, err
	}
	return &hostBackdoor{}, nil
}

func checkHypervisor() error {
	if !cpuid.CPU.Supports(cpuid.HYPERVISOR) || cpuid.CPU.HypervisorVendorID != cpuid.VMware {
		return fmt.Errorf("%w: hypervisor vendor %q", errNotVMware, cpuid.CPU.HypervisorVendorString)
	}
	return nil
}

type hostBackdoor struct {
	privileged bool
}

func (b *hostBackdoor) Open() (Channel, error) {
	out := &rpcout.RPCOut{}
	if err := out.Start(); err != nil {
		return nil, err
	}
	return &rpcChannel{out: out}, nil
}

func (b *hostBackdoor) Close() error {
	if !b.privileged {
		return nil
	}
	b.privileged = false
	return unix.Iopl(0)
}

type rpcChannel struct {
	out *rpcout.RPCOut
}

func (c *rpcChannel) GuestInfo(key string) ([]byte, bool, error) {
	reply, ok, err := c.out.Send([]byte("info-get " + key))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return reply, true, nil
}

func (c *rpcChannel) Close() error {
	return c.out.Stop()
}
