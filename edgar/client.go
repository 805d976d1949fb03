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
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const (
	defaultAPIURL = "https://data.sec.gov"
	defaultWWWURL = "https://www.sec.gov"

	// SEC fair-access guidelines allow at most 10 requests per second
	defaultRateLimit  = 10
	defaultMaxRetries = 5
)

var (
	ErrRateLimited = errors.New("rate limit retries exhausted")
	ErrStatus      = errors.New("unexpected status code")
)

// Client talks to the SEC EDGAR endpoints. A single client is shared by all
// entity pipelines so the rate limiter bounds the whole process, not one
// worker.
type Client struct {
	http       *resty.Client
	limiter    *rate.Limiter
	maxRetries int
	apiURL     string
	wwwURL     string

	// sleep suspends between rate-limited retries; replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a client configured from viper. The SEC requires a descriptive
// User-Agent identifying the caller; requests without one are rejected.
func New() *Client {
	userAgent := viper.GetString("sec.user_agent")
	if userAgent == "" {
		log.Warn().Msg("sec.user_agent is not set, SEC may reject requests")
	}

	rateLimit := viper.GetInt("sec.rate_limit")
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}

	maxRetries := viper.GetInt("sec.max_retries")
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		http:       resty.New().SetHeader("User-Agent", userAgent),
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
		maxRetries: maxRetries,
		apiURL:     defaultAPIURL,
		wwwURL:     defaultWWWURL,
		sleep:      sleepCtx,
	}
}

// get issues a GET honoring the process-wide rate limiter and the shared
// backoff protocol: a 429 with a Retry-After header suspends for exactly that
// many seconds; a 429 without one suspends 2^attempt seconds. Every other
// response is returned to the caller as-is after a single try.
func (client *Client) get(ctx context.Context, url string) (*resty.Response, error) {
	for attempt := 0; attempt < client.maxRetries; attempt++ {
		if err := client.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := client.http.R().SetContext(ctx).Get(url)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode() != http.StatusTooManyRequests {
			return resp, nil
		}

		wait := time.Duration(1<<attempt) * time.Second
		if hdr := resp.Header().Get("Retry-After"); hdr != "" {
			if secs, convErr := strconv.Atoi(strings.TrimSpace(hdr)); convErr == nil {
				wait = time.Duration(secs) * time.Second
			}
		}

		log.Warn().Str("URL", url).Int("Attempt", attempt).Dur("Wait", wait).
			Msg("SEC rate limit hit, backing off")

		if err := client.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrRateLimited, url)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PadCIK left-pads a CIK to the fixed 10-digit width used by EDGAR URLs
func PadCIK(cik string) string {
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}
