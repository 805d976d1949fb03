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
	"fmt"

	"github.com/penny-vault/edgar-data/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display information about the fact store",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("dbUrl"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to fact store")
		}
		defer myLibrary.Close()

		numSymbols, err := myLibrary.TotalSymbols(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not count symbols")
		}

		numFacts, err := myLibrary.TotalFactRows(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not count fact rows")
		}

		lastFiled, err := myLibrary.LastFiledDate(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine last filed date")
		}

		fmt.Printf("Symbols tracked:  %d\n", numSymbols)
		fmt.Printf("Fact rows:        %d\n", numFacts)
		fmt.Printf("Last filed date:  %s\n", lastFiled.Format("2006-01-02"))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
