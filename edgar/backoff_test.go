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
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("backoff", func() {
	var (
		server *httptest.Server
		waits  []time.Duration
	)

	BeforeEach(func() {
		waits = nil
	})

	AfterEach(func() {
		server.Close()
	})

	It("honors the Retry-After header exactly", func() {
		var calls atomic.Int32
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.Header().Set("Retry-After", "5")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))

		client := newTestClient(server.URL, &waits)
		resp, err := client.get(context.Background(), server.URL+"/test")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode()).To(Equal(http.StatusOK))
		Expect(waits).To(Equal([]time.Duration{5 * time.Second}))
	})

	It("falls back to exponential backoff without a Retry-After header", func() {
		var calls atomic.Int32
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))

		client := newTestClient(server.URL, &waits)
		resp, err := client.get(context.Background(), server.URL+"/test")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode()).To(Equal(http.StatusOK))

		// attempts 0, 1 and 2 wait 2^0, 2^1 and 2^2 seconds
		Expect(waits).To(Equal([]time.Duration{
			1 * time.Second,
			2 * time.Second,
			4 * time.Second,
		}))
	})

	It("surfaces a retryable failure after the attempt bound", func() {
		var calls atomic.Int32
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))

		client := newTestClient(server.URL, &waits)
		_, err := client.get(context.Background(), server.URL+"/test")
		Expect(err).To(MatchError(ErrRateLimited))
		Expect(calls.Load()).To(Equal(int32(5)))
	})

	It("stops retrying when the context is cancelled", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))

		ctx, cancel := context.WithCancel(context.Background())
		client := newTestClient(server.URL, &waits)
		client.sleep = func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}

		_, err := client.get(ctx, server.URL+"/test")
		Expect(err).To(MatchError(context.Canceled))
	})

	It("does not retry non rate-limit errors", func() {
		var calls atomic.Int32
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))

		client := newTestClient(server.URL, &waits)
		resp, err := client.get(context.Background(), server.URL+"/test")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode()).To(Equal(http.StatusNotFound))
		Expect(calls.Load()).To(Equal(int32(1)))
	})
})
