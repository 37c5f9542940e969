/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed poster.schema.json
var manifestSchema []byte

// ValidateManifest checks raw poster.json bytes against the bundled schema.
// It returns nil when the document conforms; otherwise an error listing every
// violation.
func ValidateManifest(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(manifestSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("manifest does not conform to schema:")
	for _, e := range result.Errors() {
		sb.WriteString("\n  ")
		sb.WriteString(e.String())
	}
	return fmt.Errorf("%s", sb.String())
}
