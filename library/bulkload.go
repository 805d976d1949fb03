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

	"github.com/jackc/pgx/v5"
	"github.com/penny-vault/edgar-data/facts"
	"github.com/rs/zerolog/log"
)

var companyFactColumns = []string{
	"symbol_id", "fact_name", "unit", "start_date_id", "end_date_id",
	"filed_date_id", "fiscal_year", "fiscal_period", "form", "value", "accn",
}

// BulkLoadFacts appends rows to the fact table through the postgres COPY
// protocol. There is no per-row existence check; correctness relies on the
// reconciler having filtered to genuinely new accessions. The connection is
// scoped to this call and released on every exit path.
func (myLibrary *Library) BulkLoadFacts(ctx context.Context, rows []*facts.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	copyCount, err := conn.CopyFrom(ctx,
		pgx.Identifier{"financials", "company_facts"},
		companyFactColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				row.SymbolID, row.FactName, row.Unit, row.StartDateID,
				row.EndDateID, row.FiledDateID, row.FiscalYear,
				row.FiscalPeriod, row.Form, row.Value, row.Accn,
			}, nil
		}))
	if err != nil {
		log.Error().Err(err).Int("NumRows", len(rows)).Msg("bulk load of fact rows failed")
		return 0, err
	}

	return copyCount, nil
}
