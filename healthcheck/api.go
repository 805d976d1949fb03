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
package healthcheck

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
)

var ErrStatus = errors.New("status code is invalid")

// Ping reports the outcome of a sync run to healthchecks.io. A failed run
// pings the /fail endpoint so the check alerts. No-op when no ping URL is
// configured.
func Ping(success bool) error {
	pingURL := viper.GetString("healthchecks.pingurl")
	if pingURL == "" {
		return nil
	}

	if !success {
		pingURL += "/fail"
	}

	client := resty.New()
	resp, err := client.R().Get(pingURL)
	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return nil
}
