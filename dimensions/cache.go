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
package dimensions

import (
	"context"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DateKeyLayout is the business key format for rows in metadata.dates
const DateKeyLayout = "2006-01-02"

type symbolRow struct {
	SymbolID int32  `db:"symbol_id"`
	Symbol   string `db:"symbol"`
}

type dateRow struct {
	DateID int32     `db:"date_id"`
	Date   time.Time `db:"date"`
}

// Cache holds bidirectional lookups between business keys (ticker symbol,
// calendar date) and the surrogate ids assigned by the dimension store. All
// lookups on an unloaded cache report absent, which causes callers to drop
// rows rather than crash.
type Cache struct {
	symbolToID *haxmap.Map[string, int32]
	idToSymbol *haxmap.Map[int32, string]
	dateToID   *haxmap.Map[string, int32]
	idToDate   *haxmap.Map[int32, string]
}

func NewCache() *Cache {
	return &Cache{
		symbolToID: haxmap.New[string, int32](),
		idToSymbol: haxmap.New[int32, string](),
		dateToID:   haxmap.New[string, int32](),
		idToDate:   haxmap.New[int32, string](),
	}
}

// Load populates the cache from the metadata.symbols and metadata.dates
// dimension tables. It may be called again between sync cycles to pick up
// newly discovered symbols; readers are safe during a reload.
func (cache *Cache) Load(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	var symbols []*symbolRow
	if err := pgxscan.Select(ctx, conn, &symbols,
		`SELECT symbol_id, symbol FROM metadata.symbols`); err != nil {
		return err
	}

	var dates []*dateRow
	if err := pgxscan.Select(ctx, conn, &dates,
		`SELECT date_id, date FROM metadata.dates`); err != nil {
		return err
	}

	for _, row := range symbols {
		cache.symbolToID.Set(row.Symbol, row.SymbolID)
		cache.idToSymbol.Set(row.SymbolID, row.Symbol)
	}

	for _, row := range dates {
		key := row.Date.Format(DateKeyLayout)
		cache.dateToID.Set(key, row.DateID)
		cache.idToDate.Set(row.DateID, key)
	}

	log.Debug().Int("NumSymbols", len(symbols)).Int("NumDates", len(dates)).
		Msg("loaded dimension cache")

	return nil
}

// SymbolID resolves a ticker symbol to its surrogate id
func (cache *Cache) SymbolID(symbol string) (int32, bool) {
	return cache.symbolToID.Get(symbol)
}

// Symbol is the reverse lookup of SymbolID
func (cache *Cache) Symbol(id int32) (string, bool) {
	return cache.idToSymbol.Get(id)
}

// DateID resolves a calendar date in DateKeyLayout format to its surrogate id
func (cache *Cache) DateID(date string) (int32, bool) {
	return cache.dateToID.Get(date)
}

// Date is the reverse lookup of DateID
func (cache *Cache) Date(id int32) (string, bool) {
	return cache.idToDate.Get(id)
}

// NumSymbols returns the count of cached symbol mappings
func (cache *Cache) NumSymbols() int {
	return int(cache.symbolToID.Len())
}

// NumDates returns the count of cached date mappings
func (cache *Cache) NumDates() int {
	return int(cache.dateToID.Len())
}
