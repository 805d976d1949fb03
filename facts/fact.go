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

// Row is one normalized XBRL observation ready for the bulk load path.
// Rows are append-only; the natural key (symbol_id, fact_name, unit,
// start_date_id, end_date_id, accn) is never checked store-side, so a row
// must only be built for accessions the reconciler found missing.
type Row struct {
	SymbolID     int32
	FactName     string
	Unit         string
	StartDateID  *int32 // nil for instantaneous facts
	EndDateID    int32
	FiledDateID  int32
	FiscalYear   int
	FiscalPeriod string
	Form         string
	Value        float64
	Accn         string
}
