// Copyright 2026 Groundline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package extract pulls plain text out of binary document formats so
// connectors can hand uniform text to the ingestion pipeline.
package extract

import (
	"errors"
)

// ErrMalformed is returned when a document cannot be parsed as its
// declared format.
var ErrMalformed = errors.New("malformed document")
