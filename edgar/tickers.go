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
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// CompanyRecord is one entry of the SEC symbol directory mapping a CIK to a
// ticker symbol and registrant title.
type CompanyRecord struct {
	CIK    string
	Symbol string
	Title  string
}

type companyTickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// FetchCompanyTickers downloads the SEC company ticker directory. This is how
// entities are first discovered; new symbols are upserted into the dimension
// store and picked up by the next dimension cache load.
func (client *Client) FetchCompanyTickers(ctx context.Context) ([]*CompanyRecord, error) {
	url := fmt.Sprintf("%s/files/company_tickers.json", client.wwwURL)

	resp, err := client.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode(), url)
	}

	// the directory is keyed by arbitrary row index, values are the entries
	entries := make(map[string]*companyTickerEntry)
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("decode company tickers: %w", err)
	}

	records := make([]*CompanyRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.Ticker == "" {
			continue
		}
		records = append(records, &CompanyRecord{
			CIK:    PadCIK(strconv.FormatInt(entry.CIK, 10)),
			Symbol: entry.Ticker,
			Title:  entry.Title,
		})
	}

	return records, nil
}
