// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package facts

import mapset "github.com/deckarep/golang-set/v2"

// Missing computes which upstream accession numbers are not yet represented
// in the local fact store. This set difference is the sole idempotence
// guard for the append-only load path: when it is empty for an entity the
// orchestrator skips the fact document fetch entirely.
func Missing(remote, local mapset.Set[string]) mapset.Set[string] {
	return remote.Difference(local)
}
