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
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Library owns the connection pool for the fact store. Connections are
// acquired per operation and released on every exit path.
type Library struct {
	DBUrl string

	Pool *pgxpool.Pool
}

// NewFromDB creates a library connected to the given database and verifies
// the store is reachable. A store that cannot be reached at startup is fatal
// to the run, since no dimension resolution would succeed.
func NewFromDB(ctx context.Context, dbURL string) (*Library, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}

	return &Library{DBUrl: dbURL, Pool: pool}, nil
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	myLibrary.Pool.Close()
}

// TotalFactRows returns the total number of fact rows in the store
func (myLibrary *Library) TotalFactRows(ctx context.Context) (int64, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var count int64
	err = conn.QueryRow(ctx, "SELECT count(*) FROM financials.company_facts").Scan(&count)
	return count, err
}

// TotalSymbols returns the number of tracked symbols in the dimension store
func (myLibrary *Library) TotalSymbols(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM metadata.symbols").Scan(&count)
	return count, err
}

// LastFiledDate returns the most recent filing date represented in the store
func (myLibrary *Library) LastFiledDate(ctx context.Context) (time.Time, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Release()

	var lastFiled time.Time
	err = conn.QueryRow(ctx, `SELECT coalesce(max(d.date), '0001-01-01'::date)
FROM financials.company_facts cf
JOIN metadata.dates d ON d.date_id = cf.filed_date_id`).Scan(&lastFiled)
	if err != nil {
		return time.Time{}, err
	}

	return lastFiled, nil
}
