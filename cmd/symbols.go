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

	"github.com/penny-vault/edgar-data/edgar"
	"github.com/penny-vault/edgar-data/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Refresh the symbol dimension from the SEC company ticker directory",
	Long: `The symbols sub-command downloads the SEC company ticker directory and
upserts it into the symbol dimension. Newly discovered companies become part
of the sync universe on the next cycle.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("dbUrl"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to fact store")
		}
		defer myLibrary.Close()

		records, err := edgar.New().FetchCompanyTickers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not fetch company ticker directory")
		}

		count, err := myLibrary.UpsertSymbols(ctx, records)
		if err != nil {
			log.Fatal().Err(err).Msg("could not upsert symbols")
		}

		log.Info().Int64("NumSymbols", count).Msg("symbol dimension refreshed")
	},
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}
