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

// Package refresh drives the incremental fact synchronization cycle: for
// every tracked entity it compares the upstream filing index against the
// local ledger, fetches only what is missing, normalizes it through the
// dimension cache and appends it to the fact store. Entity pipelines are
// independent; one entity failing never aborts the run.
package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/penny-vault/edgar-data/edgar"
	"github.com/penny-vault/edgar-data/facts"
	"github.com/penny-vault/edgar-data/library"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCache = errors.New("dimension cache is empty")
	ErrNoEntities = errors.New("entity universe is empty")
)

// Dimensions is the read-only view of the dimension cache the pipeline
// needs. Satisfied by dimensions.Cache.
type Dimensions interface {
	DateID(date string) (int32, bool)
	NumDates() int
}

// Upstream is the slice of the EDGAR client the orchestrator needs
type Upstream interface {
	ListXBRLAccessions(ctx context.Context, cik string) ([]string, error)
	FetchFacts(ctx context.Context, cik string) (*edgar.FactsDocument, error)
}

// Store is the slice of the fact store the orchestrator needs
type Store interface {
	ExistingAccessions(ctx context.Context, cik string) (mapset.Set[string], error)
	BulkLoadFacts(ctx context.Context, rows []*facts.Row) (int64, error)
}

// Refresher runs sync cycles over an entity universe with up to Workers
// entity pipelines in flight at once. The reference deployment runs a single
// worker to stay conservative against the upstream rate limit; the shared
// client limiter keeps higher worker counts safe.
type Refresher struct {
	Upstream Upstream
	Store    Store
	Cache    Dimensions
	Universe []*library.Entity
	Workers  int
}

// RunCycle synchronizes every entity in the universe and returns the
// aggregate report. Pre-flight failures (empty cache, empty universe) abort
// before any entity is touched; afterwards all failures are entity-scoped.
// Cancelling ctx lets in-flight pipelines finish their current step, skips
// the rest, and still returns the partial summary.
func (refresher *Refresher) RunCycle(ctx context.Context) (*Summary, error) {
	if refresher.Cache == nil || refresher.Cache.NumDates() == 0 {
		return nil, ErrEmptyCache
	}

	if len(refresher.Universe) == 0 {
		return nil, ErrNoEntities
	}

	summary := &Summary{
		RunID:     uuid.New(),
		StartTime: time.Now(),
	}

	workers := refresher.Workers
	if workers < 1 {
		workers = 1
	}

	log.Info().Str("RunID", summary.RunID.String()).Int("NumEntities", len(refresher.Universe)).
		Int("Workers", workers).Msg("starting sync cycle")

	var mu sync.Mutex
	group := &errgroup.Group{}
	group.SetLimit(workers)

	for _, entity := range refresher.Universe {
		if ctx.Err() != nil {
			break
		}

		entity := entity
		group.Go(func() error {
			result := refresher.syncEntity(ctx, entity)

			mu.Lock()
			summary.apply(result)
			mu.Unlock()

			// entity failures are recorded, never propagated
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("worker group returned an error")
	}

	summary.EndTime = time.Now()
	return summary, ctx.Err()
}

// syncEntity runs the per-entity pipeline: fetch remote index, read local
// ledger, reconcile, and only when accessions are missing fetch the fact
// document, normalize and bulk load. Steps are strictly sequential within an
// entity.
func (refresher *Refresher) syncEntity(ctx context.Context, entity *library.Entity) entityResult {
	logger := log.With().Str("CIK", entity.CIK).Str("Symbol", entity.Symbol).Logger()

	remote, err := refresher.Upstream.ListXBRLAccessions(ctx, entity.CIK)
	if err != nil {
		logger.Error().Err(err).Msg("could not fetch filing index")
		return entityResult{failed: true}
	}

	if len(remote) == 0 {
		return entityResult{}
	}

	if ctx.Err() != nil {
		return entityResult{failed: true}
	}

	local, err := refresher.Store.ExistingAccessions(ctx, entity.CIK)
	if err != nil {
		logger.Error().Err(err).Msg("could not read local ledger")
		return entityResult{failed: true}
	}

	missing := facts.Missing(mapset.NewThreadUnsafeSet(remote...), local)
	if missing.Cardinality() == 0 {
		logger.Debug().Int("NumRemote", len(remote)).Msg("entity is up to date")
		return entityResult{}
	}

	if ctx.Err() != nil {
		return entityResult{failed: true}
	}

	doc, err := refresher.Upstream.FetchFacts(ctx, entity.CIK)
	if err != nil {
		logger.Error().Err(err).Msg("could not fetch fact document")
		return entityResult{failed: true}
	}

	if doc == nil {
		logger.Debug().Msg("entity has no fact document")
		return entityResult{}
	}

	filtered := edgar.FilterByAccession(doc, missing)
	rows, drops := facts.Normalize(filtered, entity.SymbolID, refresher.Cache)

	if ctx.Err() != nil {
		return entityResult{failed: true, dropped: drops.Total()}
	}

	inserted, err := refresher.Store.BulkLoadFacts(ctx, rows)
	if err != nil {
		logger.Error().Err(err).Int("NumRows", len(rows)).Msg("bulk load failed")
		return entityResult{failed: true, dropped: drops.Total()}
	}

	logger.Info().Int("MissingAccns", missing.Cardinality()).Int64("RowsInserted", inserted).
		Int("RowsDropped", drops.Total()).Msg("entity synchronized")

	return entityResult{
		newData:  inserted > 0,
		inserted: inserted,
		dropped:  drops.Total(),
	}
}
