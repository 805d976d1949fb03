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
package edgar

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// FactsDocument is the full per-entity fact document returned by the
// companyfacts endpoint: taxonomy -> concept -> unit -> instances.
type FactsDocument struct {
	CIK        json.Number                   `json:"cik"`
	EntityName string                        `json:"entityName"`
	Facts      map[string]map[string]Concept `json:"facts"`
}

// Concept is one tagged disclosure concept (e.g. us-gaap Assets) with its
// reported time series grouped by unit of measure.
type Concept struct {
	Label       string                 `json:"label"`
	Description string                 `json:"description"`
	Units       map[string][]*Instance `json:"units"`
}

// Instance is a single dated, valued observation of a concept. Start is empty
// for instantaneous facts such as balance-sheet figures. Value is left
// untyped because a handful of dei concepts report strings; the normalizer
// casts and validates.
type Instance struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	Filed        string `json:"filed"`
	FiscalYear   int    `json:"fy"`
	FiscalPeriod string `json:"fp"`
	Form         string `json:"form"`
	Value        any    `json:"val"`
	Accn         string `json:"accn"`
	Frame        string `json:"frame"`
}

// UnitInstance pairs an instance with the unit it was reported under once the
// unit grouping has been flattened away.
type UnitInstance struct {
	Unit     string
	Instance *Instance
}

// ConceptFacts is the per-concept result of filtering a FactsDocument down to
// a set of accession numbers. Concept-level label and description metadata is
// preserved.
type ConceptFacts struct {
	Label       string
	Description string
	Instances   []UnitInstance
}

// FetchFacts retrieves the full fact document for a CIK. Entities with no
// facts on file (the endpoint answers 404) yield a nil document and no error.
func (client *Client) FetchFacts(ctx context.Context, cik string) (*FactsDocument, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", client.apiURL, PadCIK(cik))

	resp, err := client.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 500 {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode(), url)
	}

	if resp.StatusCode() >= 400 {
		log.Debug().Str("CIK", cik).Int("StatusCode", resp.StatusCode()).
			Msg("no fact document for entity")
		return nil, nil
	}

	doc := &FactsDocument{}
	if err := json.Unmarshal(resp.Body(), doc); err != nil {
		return nil, fmt.Errorf("decode companyfacts for CIK %s: %w", cik, err)
	}

	return doc, nil
}

// FilterByAccession reduces a fact document to the instances whose accession
// number is in missing. Concepts with no matching instances are omitted
// entirely. The upstream API cannot fetch single accessions, so filtering
// happens client-side after a full document fetch.
func FilterByAccession(doc *FactsDocument, missing mapset.Set[string]) map[string]*ConceptFacts {
	filtered := make(map[string]*ConceptFacts)

	if doc == nil {
		return filtered
	}

	for _, concepts := range doc.Facts {
		for conceptName, concept := range concepts {
			for unit, instances := range concept.Units {
				for _, instance := range instances {
					if !missing.Contains(instance.Accn) {
						continue
					}

					conceptFacts, ok := filtered[conceptName]
					if !ok {
						conceptFacts = &ConceptFacts{
							Label:       concept.Label,
							Description: concept.Description,
						}
						filtered[conceptName] = conceptFacts
					}

					conceptFacts.Instances = append(conceptFacts.Instances, UnitInstance{
						Unit:     unit,
						Instance: instance,
					})
				}
			}
		}
	}

	return filtered
}
