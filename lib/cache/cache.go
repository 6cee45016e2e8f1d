/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cache

import "gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"

// Type selects where the analysis server keeps the token lists of sentences it has analysed.
type Type string

const (
	Memory        Type = "memory"
	Redis         Type = "redis"
	Elasticsearch Type = "elasticsearch"
	None          Type = "none"
)

// Client caches analysed sentences. A miss is (nil, false, nil); err is reserved for a
// backend that could not be asked.
type Client interface {
	Get(sentence string) ([]lib.Token, bool, error)
	Set(sentence string, tokens []lib.Token) error
	Ready() bool
}

type noop struct{}

// NewNoop returns a Client which never stores anything.
func NewNoop() Client {
	return noop{}
}

func (noop) Get(string) ([]lib.Token, bool, error) { return nil, false, nil }
func (noop) Set(string, []lib.Token) error         { return nil }
func (noop) Ready() bool                           { return true }
