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
	"os"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/gocarina/gocsv"
	"github.com/penny-vault/edgar-data/edgar"
	"github.com/rs/zerolog/log"
)

// Entity is one tracked company: an immutable external identifier (CIK), its
// ticker symbol, and the surrogate id assigned by the dimension store.
type Entity struct {
	SymbolID int32  `db:"symbol_id" csv:"-"`
	Symbol   string `db:"symbol" csv:"symbol"`
	CIK      string `db:"cik" csv:"cik"`
}

// AllEntities returns the full entity universe tracked in the dimension
// store, ordered by CIK.
func (myLibrary *Library) AllEntities(ctx context.Context) ([]*Entity, error) {
	var entities []*Entity
	err := pgxscan.Select(ctx, myLibrary.Pool, &entities,
		`SELECT symbol_id, symbol, cik FROM metadata.symbols
WHERE cik IS NOT NULL AND cik <> '' ORDER BY cik`)
	if err != nil {
		return nil, err
	}

	for _, entity := range entities {
		entity.CIK = edgar.PadCIK(entity.CIK)
	}

	return entities, nil
}

// UpsertSymbols writes the SEC symbol directory into the dimension store.
// Existing symbols keep their surrogate id; only the CIK and title are
// updated. New symbols become visible to sync runs after the next dimension
// cache load.
func (myLibrary *Library) UpsertSymbols(ctx context.Context, records []*edgar.CompanyRecord) (int64, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, record := range records {
		_, err := tx.Exec(ctx, `INSERT INTO metadata.symbols ("symbol", "cik", "title")
VALUES ($1, $2, $3)
ON CONFLICT ("symbol") DO UPDATE SET
	cik = EXCLUDED.cik,
	title = EXCLUDED.title`, record.Symbol, record.CIK, record.Title)
		if err != nil {
			if err2 := tx.Rollback(ctx); err2 != nil {
				log.Error().Err(err2).Msg("error rolling back symbol upsert tx")
			}
			return 0, err
		}
		count++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return count, nil
}

// LoadUniverseCSV reads a restricted entity universe from a CSV file with
// symbol and cik columns. Surrogate ids are not in the file; callers resolve
// them through the dimension cache.
func LoadUniverseCSV(path string) ([]*Entity, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var entities []*Entity
	if err := gocsv.UnmarshalFile(fh, &entities); err != nil {
		return nil, err
	}

	for _, entity := range entities {
		entity.CIK = edgar.PadCIK(entity.CIK)
	}

	return entities, nil
}
