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
package facts

import (
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/penny-vault/edgar-data/edgar"
	"github.com/rs/zerolog/log"
)

// DateResolver resolves calendar dates (formatted YYYY-MM-DD) to dimension
// surrogate ids. Satisfied by dimensions.Cache.
type DateResolver interface {
	DateID(date string) (int32, bool)
}

// DropStats counts rows the normalizer discarded instead of emitting
type DropStats struct {
	UnresolvedDate int
	BadValue       int
}

// Total returns the number of dropped rows across all reasons
func (stats DropStats) Total() int {
	return stats.UnresolvedDate + stats.BadValue
}

// Normalize flattens a filtered concept map into Fact rows for one entity.
// The end and filed dates are mandatory dimensions: a row whose end or filed
// date cannot be resolved through the cache is dropped and counted, never
// inserted. A missing start date marks an instantaneous fact and leaves
// StartDateID nil. Normalization is pure apart from cache reads; it never
// refreshes the cache mid-flight.
func Normalize(concepts map[string]*edgar.ConceptFacts, symbolID int32, dates DateResolver) ([]*Row, DropStats) {
	var stats DropStats

	rows := make([]*Row, 0, countInstances(concepts))

	for conceptName, conceptFacts := range concepts {
		for _, unitInstance := range conceptFacts.Instances {
			instance := unitInstance.Instance

			value, ok := castValue(instance.Value)
			if !ok {
				stats.BadValue++
				continue
			}

			endDateID, ok := dates.DateID(instance.End)
			if !ok {
				stats.UnresolvedDate++
				continue
			}

			filedDateID, ok := dates.DateID(instance.Filed)
			if !ok {
				stats.UnresolvedDate++
				continue
			}

			var startDateID *int32
			if instance.Start != "" {
				id, ok := dates.DateID(instance.Start)
				if !ok {
					stats.UnresolvedDate++
					continue
				}
				startDateID = &id
			}

			rows = append(rows, &Row{
				SymbolID:     symbolID,
				FactName:     conceptName,
				Unit:         unitInstance.Unit,
				StartDateID:  startDateID,
				EndDateID:    endDateID,
				FiledDateID:  filedDateID,
				FiscalYear:   instance.FiscalYear,
				FiscalPeriod: instance.FiscalPeriod,
				Form:         instance.Form,
				Value:        value,
				Accn:         instance.Accn,
			})
		}
	}

	if stats.Total() > 0 {
		log.Debug().Int("SymbolID", int(symbolID)).Int("UnresolvedDate", stats.UnresolvedDate).
			Int("BadValue", stats.BadValue).Msg("dropped rows during normalization")
	}

	return rows, stats
}

func countInstances(concepts map[string]*edgar.ConceptFacts) int {
	total := 0
	for _, conceptFacts := range concepts {
		total += len(conceptFacts.Instances)
	}
	return total
}

// castValue coerces the untyped wire value to a float64. Numeric JSON values
// arrive as float64 or json.Number; a few dei concepts report strings, which
// are accepted only when they parse as numbers.
func castValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
