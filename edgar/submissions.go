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

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// ListXBRLAccessions fetches the filing index for a CIK and returns the
// accession numbers of filings carrying machine-readable XBRL data, in the
// order the index reports them. The submissions document stores filings as
// parallel arrays indexed together; only the accessionNumber and isXBRL
// columns are extracted here. An entity with no filings yields an empty
// slice, not an error.
func (client *Client) ListXBRLAccessions(ctx context.Context, cik string) ([]string, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", client.apiURL, PadCIK(cik))

	resp, err := client.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 500 {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode(), url)
	}

	if resp.StatusCode() >= 400 {
		// no submissions on file for this entity
		log.Debug().Str("CIK", cik).Int("StatusCode", resp.StatusCode()).
			Msg("no filing index for entity")
		return nil, nil
	}

	body := resp.Body()
	accns := gjson.GetBytes(body, "filings.recent.accessionNumber").Array()
	isXBRL := gjson.GetBytes(body, "filings.recent.isXBRL").Array()

	if len(accns) == 0 {
		return nil, nil
	}

	xbrlAccns := make([]string, 0, len(accns))
	for idx, accn := range accns {
		if idx >= len(isXBRL) {
			break
		}
		if isXBRL[idx].Bool() {
			xbrlAccns = append(xbrlAccns, accn.String())
		}
	}

	return xbrlAccns, nil
}
