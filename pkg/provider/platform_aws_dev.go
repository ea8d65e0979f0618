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

//go:build platform_aws_dev

package provider

import (
	"github.com/NVIDIA/early-boot-config/pkg/provider/aws"
	"github.com/NVIDIA/early-boot-config/pkg/provider/localfile"
)

// Platform is the compiled-in platform.
const Platform = "aws-dev"

// Providers returns the providers for the compiled-in platform, in order.
// Local user data comes first so the metadata service can override it.
func Providers() []Provider {
	return []Provider{localfile.New(), aws.New()}
}
