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
package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/penny-vault/edgar-data/dimensions"
	"github.com/penny-vault/edgar-data/edgar"
	"github.com/penny-vault/edgar-data/healthcheck"
	"github.com/penny-vault/edgar-data/library"
	"github.com/penny-vault/edgar-data/refresh"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one incremental fact synchronization cycle",
	Long: `The sync sub-command runs a single synchronization cycle: for every tracked
entity it fetches the EDGAR filing index, reconciles it against the local
ledger, and loads only the facts belonging to missing accession numbers. An
external scheduler (cron, systemd timer) is expected to invoke this
periodically.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("dbUrl"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to fact store")
		}
		defer myLibrary.Close()

		cache := dimensions.NewCache()
		if err := cache.Load(ctx, myLibrary.Pool); err != nil {
			log.Fatal().Err(err).Msg("could not load dimension cache")
		}

		universe, err := resolveUniverse(ctx, myLibrary, cache)
		if err != nil {
			log.Fatal().Err(err).Msg("could not resolve entity universe")
		}

		refresher := &refresh.Refresher{
			Upstream: edgar.New(),
			Store:    myLibrary,
			Cache:    cache,
			Universe: universe,
			Workers:  viper.GetInt("sync.workers"),
		}

		summary, err := refresher.RunCycle(ctx)
		if err != nil && summary == nil {
			if pingErr := healthcheck.Ping(false); pingErr != nil {
				log.Error().Err(pingErr).Msg("could not ping healthcheck")
			}
			log.Fatal().Err(err).Msg("sync cycle aborted")
		}

		summary.Log()

		if pingErr := healthcheck.Ping(summary.EntitiesFailed == 0); pingErr != nil {
			log.Error().Err(pingErr).Msg("could not ping healthcheck")
		}
	},
}

// resolveUniverse returns the entities to synchronize: the full symbol
// dimension by default, or the subset listed in a configured CSV file.
// CSV entries resolve their surrogate ids through the dimension cache;
// unknown symbols are skipped with a warning.
func resolveUniverse(ctx context.Context, myLibrary *library.Library, cache *dimensions.Cache) ([]*library.Entity, error) {
	universeFile := viper.GetString("sync.universe_file")
	if universeFile == "" {
		return myLibrary.AllEntities(ctx)
	}

	entities, err := library.LoadUniverseCSV(universeFile)
	if err != nil {
		return nil, err
	}

	resolved := make([]*library.Entity, 0, len(entities))
	for _, entity := range entities {
		symbolID, ok := cache.SymbolID(entity.Symbol)
		if !ok {
			log.Warn().Str("Symbol", entity.Symbol).Msg("universe symbol not in dimension store, skipping")
			continue
		}
		entity.SymbolID = symbolID
		resolved = append(resolved, entity)
	}

	return resolved, nil
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Int("workers", 1, "number of entity pipelines to run concurrently")
	if err := viper.BindPFlag("sync.workers", syncCmd.Flags().Lookup("workers")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for workers failed")
	}

	syncCmd.Flags().String("universe", "", "CSV file restricting the entities to synchronize (symbol,cik columns)")
	if err := viper.BindPFlag("sync.universe_file", syncCmd.Flags().Lookup("universe")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for universe failed")
	}
}
