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
package refresh

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Summary aggregates the outcome of one sync cycle. The counts are enough
// for an operator to tell "nothing new" apart from "something broke".
type Summary struct {
	RunID     uuid.UUID
	StartTime time.Time
	EndTime   time.Time

	EntitiesProcessed   int
	EntitiesWithNewData int
	EntitiesFailed      int
	RowsInserted        int64
	RowsDropped         int
}

// entityResult is the per-entity outcome folded into the run summary
type entityResult struct {
	failed   bool
	newData  bool
	inserted int64
	dropped  int
}

func (summary *Summary) apply(result entityResult) {
	summary.EntitiesProcessed++
	if result.failed {
		summary.EntitiesFailed++
	}
	if result.newData {
		summary.EntitiesWithNewData++
	}
	summary.RowsInserted += result.inserted
	summary.RowsDropped += result.dropped
}

func (summary *Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("RunID", summary.RunID.String()).
		Dur("RunTime", summary.EndTime.Sub(summary.StartTime)).
		Int("EntitiesProcessed", summary.EntitiesProcessed).
		Int("EntitiesWithNewData", summary.EntitiesWithNewData).
		Int("EntitiesFailed", summary.EntitiesFailed).
		Int64("RowsInserted", summary.RowsInserted).
		Int("RowsDropped", summary.RowsDropped)
}

// Log writes the end-of-run report
func (summary *Summary) Log() {
	log.Info().Object("Summary", summary).Msg("sync cycle complete")
}
