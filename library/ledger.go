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
package library

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/georgysavva/scany/v2/pgxscan"
)

// ExistingAccessions returns every distinct accession number already
// persisted for the entity identified by cik, joining the fact table back to
// the symbol dimension. The result reflects the store as of call time.
func (myLibrary *Library) ExistingAccessions(ctx context.Context, cik string) (mapset.Set[string], error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var accns []string
	err = pgxscan.Select(ctx, conn, &accns,
		`SELECT DISTINCT cf.accn FROM financials.company_facts cf
LEFT JOIN metadata.symbols s ON s.symbol_id = cf.symbol_id
WHERE s.cik = $1`, cik)
	if err != nil {
		return nil, err
	}

	return mapset.NewThreadUnsafeSet(accns...), nil
}
