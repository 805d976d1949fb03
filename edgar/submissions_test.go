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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ListXBRLAccessions", func() {
	var (
		server *httptest.Server
		waits  []time.Duration
	)

	AfterEach(func() {
		server.Close()
	})

	It("returns only accessions flagged as XBRL", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/submissions/CIK0000320193.json"))
			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(`{
				"cik": "320193",
				"filings": {
					"recent": {
						"accessionNumber": ["0001-24-01", "0001-24-02", "0001-24-03"],
						"isXBRL": [1, 0, 1]
					}
				}
			}`))
			Expect(err).NotTo(HaveOccurred())
		}))

		client := newTestClient(server.URL, &waits)
		accns, err := client.ListXBRLAccessions(context.Background(), "320193")
		Expect(err).NotTo(HaveOccurred())
		Expect(accns).To(Equal([]string{"0001-24-01", "0001-24-03"}))
	})

	It("treats a 404 as an entity with no filings", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		client := newTestClient(server.URL, &waits)
		accns, err := client.ListXBRLAccessions(context.Background(), "320193")
		Expect(err).NotTo(HaveOccurred())
		Expect(accns).To(BeEmpty())
	})

	It("treats a structurally empty response as an entity with no filings", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(`{"cik": "320193", "filings": {}}`))
			Expect(err).NotTo(HaveOccurred())
		}))

		client := newTestClient(server.URL, &waits)
		accns, err := client.ListXBRLAccessions(context.Background(), "320193")
		Expect(err).NotTo(HaveOccurred())
		Expect(accns).To(BeEmpty())
	})

	It("surfaces server errors", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		client := newTestClient(server.URL, &waits)
		_, err := client.ListXBRLAccessions(context.Background(), "320193")
		Expect(err).To(MatchError(ErrStatus))
	})
})

var _ = Describe("PadCIK", func() {
	It("left-pads to ten digits", func() {
		Expect(PadCIK("320193")).To(Equal("0000320193"))
	})

	It("leaves ten digit identifiers untouched", func() {
		Expect(PadCIK("0000320193")).To(Equal("0000320193"))
	})
})
