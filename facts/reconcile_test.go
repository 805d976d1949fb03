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
package facts_test

import (
	mapset "github.com/deckarep/golang-set/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/edgar-data/facts"
)

var _ = Describe("Missing", func() {
	It("returns accessions present upstream but not local", func() {
		remote := mapset.NewThreadUnsafeSet("0001-24-01", "0001-24-02", "0001-24-03")
		local := mapset.NewThreadUnsafeSet("0001-24-01", "0001-24-02")

		missing := facts.Missing(remote, local)
		Expect(missing.ToSlice()).To(ConsistOf("0001-24-03"))
	})

	It("is empty when the local ledger covers the remote index", func() {
		remote := mapset.NewThreadUnsafeSet("0001-24-01", "0001-24-02")
		local := mapset.NewThreadUnsafeSet("0001-24-01", "0001-24-02")

		Expect(facts.Missing(remote, local).Cardinality()).To(BeZero())
	})

	It("ignores local accessions unknown upstream", func() {
		remote := mapset.NewThreadUnsafeSet("0001-24-02")
		local := mapset.NewThreadUnsafeSet("0001-24-01", "0001-24-02")

		Expect(facts.Missing(remote, local).Cardinality()).To(BeZero())
	})

	It("returns everything when the local ledger is empty", func() {
		remote := mapset.NewThreadUnsafeSet("0001-24-01", "0001-24-02")
		local := mapset.NewThreadUnsafeSet[string]()

		Expect(facts.Missing(remote, local).Cardinality()).To(Equal(2))
	})
})
