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
package edgar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const companyFactsFixture = `{
	"cik": 320193,
	"entityName": "Apple Inc.",
	"facts": {
		"us-gaap": {
			"Assets": {
				"label": "Assets",
				"description": "Sum of the carrying amounts of all assets",
				"units": {
					"USD": [
						{"end": "2023-09-30", "val": 352583000000, "accn": "0001-24-01",
						 "fy": 2023, "fp": "FY", "form": "10-K", "filed": "2023-11-03"},
						{"end": "2023-12-30", "val": 353514000000, "accn": "0001-24-02",
						 "fy": 2024, "fp": "Q1", "form": "10-Q", "filed": "2024-02-02"}
					]
				}
			},
			"Revenues": {
				"label": "Revenues",
				"description": "Amount of revenue recognized",
				"units": {
					"USD": [
						{"start": "2023-10-01", "end": "2023-12-30", "val": 119575000000,
						 "accn": "0001-24-02", "fy": 2024, "fp": "Q1", "form": "10-Q",
						 "filed": "2024-02-02"}
					]
				}
			}
		},
		"dei": {
			"EntityCommonStockSharesOutstanding": {
				"label": "Entity Common Stock, Shares Outstanding",
				"description": "Shares outstanding",
				"units": {
					"shares": [
						{"end": "2024-01-19", "val": 15441185000, "accn": "0001-24-02",
						 "fy": 2024, "fp": "Q1", "form": "10-Q", "filed": "2024-02-02"}
					]
				}
			}
		}
	}
}`

var _ = Describe("FetchFacts", func() {
	var (
		server *httptest.Server
		waits  []time.Duration
	)

	AfterEach(func() {
		server.Close()
	})

	It("decodes the taxonomy, concept, unit and instance tree", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/xbrl/companyfacts/CIK0000320193.json"))
			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(companyFactsFixture))
			Expect(err).NotTo(HaveOccurred())
		}))

		client := newTestClient(server.URL, &waits)
		doc, err := client.FetchFacts(context.Background(), "320193")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).NotTo(BeNil())
		Expect(doc.EntityName).To(Equal("Apple Inc."))
		Expect(doc.Facts).To(HaveKey("us-gaap"))
		Expect(doc.Facts["us-gaap"]).To(HaveKey("Assets"))

		assets := doc.Facts["us-gaap"]["Assets"]
		Expect(assets.Label).To(Equal("Assets"))
		Expect(assets.Units["USD"]).To(HaveLen(2))
		Expect(assets.Units["USD"][1].Accn).To(Equal("0001-24-02"))
		Expect(assets.Units["USD"][1].Start).To(BeEmpty())

		revenues := doc.Facts["us-gaap"]["Revenues"]
		Expect(revenues.Units["USD"][0].Start).To(Equal("2023-10-01"))
	})

	It("returns a nil document for entities with no facts", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		client := newTestClient(server.URL, &waits)
		doc, err := client.FetchFacts(context.Background(), "320193")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).To(BeNil())
	})
})

var _ = Describe("FilterByAccession", func() {
	doc := func() *FactsDocument {
		return &FactsDocument{
			EntityName: "Apple Inc.",
			Facts: map[string]map[string]Concept{
				"us-gaap": {
					"Assets": {
						Label:       "Assets",
						Description: "Sum of the carrying amounts of all assets",
						Units: map[string][]*Instance{
							"USD": {
								{End: "2023-09-30", Value: float64(1), Accn: "0001-24-01"},
								{End: "2023-12-30", Value: float64(2), Accn: "0001-24-02"},
							},
						},
					},
				},
				"dei": {
					"EntityCommonStockSharesOutstanding": {
						Label: "Entity Common Stock, Shares Outstanding",
						Units: map[string][]*Instance{
							"shares": {
								{End: "2024-01-19", Value: float64(3), Accn: "0001-24-02"},
							},
						},
					},
				},
			},
		}
	}

	It("keeps only instances belonging to missing accessions", func() {
		filtered := FilterByAccession(doc(), mapset.NewThreadUnsafeSet("0001-24-02"))

		Expect(filtered).To(HaveLen(2))
		Expect(filtered).To(HaveKey("Assets"))
		Expect(filtered["Assets"].Instances).To(HaveLen(1))
		Expect(filtered["Assets"].Instances[0].Unit).To(Equal("USD"))
		Expect(filtered["Assets"].Instances[0].Instance.Accn).To(Equal("0001-24-02"))
	})

	It("preserves concept level metadata", func() {
		filtered := FilterByAccession(doc(), mapset.NewThreadUnsafeSet("0001-24-02"))

		Expect(filtered["Assets"].Label).To(Equal("Assets"))
		Expect(filtered["Assets"].Description).To(Equal("Sum of the carrying amounts of all assets"))
	})

	It("omits concepts with no matching instances", func() {
		filtered := FilterByAccession(doc(), mapset.NewThreadUnsafeSet("0001-24-01"))

		Expect(filtered).To(HaveLen(1))
		Expect(filtered).To(HaveKey("Assets"))
	})

	It("returns an empty map for an empty missing set", func() {
		filtered := FilterByAccession(doc(), mapset.NewThreadUnsafeSet[string]())
		Expect(filtered).To(BeEmpty())
	})

	It("tolerates a nil document", func() {
		filtered := FilterByAccession(nil, mapset.NewThreadUnsafeSet("0001-24-02"))
		Expect(filtered).To(BeEmpty())
	})
})
