// Copyright 2025 The Catalyst Authors
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

package names

import (
	"context"
	cryptorand "crypto/rand"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// DefaultMaxRetries is how many candidate names GenerateUnique tries before
// giving up on the word lists and falling back to a random hex name.
const DefaultMaxRetries = 5

const fallbackPrefix = "fallback"

// Config controls memorable name generation. The zero value selects the
// defaults: dash separator, numbers in [10, 100), five retries.
type Config struct {
	// Separator joins the adjective, noun and number. Defaults to "-".
	Separator string

	// MinNumber and MaxNumber bound the numeric component as the half-open
	// interval [MinNumber, MaxNumber). Defaults to [10, 100), i.e. always two
	// digits.
	MinNumber int
	MaxNumber int

	// MaxRetries caps how many candidates GenerateUnique draws before the
	// fallback. Defaults to DefaultMaxRetries.
	MaxRetries int
}

func (c Config) withDefaults() Config {
	if c.Separator == "" {
		c.Separator = "-"
	}
	if c.MaxNumber <= c.MinNumber {
		c.MinNumber = 10
		c.MaxNumber = 100
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	return c
}

// Generated is one memorable name together with the parts it was assembled
// from.
type Generated struct {
	Name      string
	Adjective string
	Noun      string
	Number    int
}

// Generate draws a random "adjective-noun-NN" name. Both word lists contain
// only short lowercase words, so the result is always a valid DNS-1123 label
// without further sanitizing.
func Generate(cfg Config) Generated {
	cfg = cfg.withDefaults()

	adjective := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	number := cfg.MinNumber + rand.Intn(cfg.MaxNumber-cfg.MinNumber)

	name := strings.Join([]string{adjective, noun, strconv.Itoa(number)}, cfg.Separator)
	return Generated{Name: name, Adjective: adjective, Noun: noun, Number: number}
}

// ExistsFunc reports whether a candidate name is already taken. Errors are
// treated as infrastructure failures and abort generation; they are never
// interpreted as a collision.
type ExistsFunc func(ctx context.Context, name string) (bool, error)

// Unique is the outcome of GenerateUnique. Retries counts the candidates that
// were already taken: 0 means the first draw was free, MaxRetries means every
// draw collided and Name is a fallback, marked by Fallback.
type Unique struct {
	Generated
	Retries  int
	Fallback bool
}

// GenerateUnique draws memorable names until exists reports one as free, up
// to cfg.MaxRetries attempts. When every attempt collides it returns
// "fallback-" plus eight random hex characters instead of failing; the
// fallback is drawn from crypto/rand and is not checked against exists.
func GenerateUnique(ctx context.Context, exists ExistsFunc, cfg Config) (Unique, error) {
	cfg = cfg.withDefaults()

	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		candidate := Generate(cfg)
		taken, err := exists(ctx, candidate.Name)
		if err != nil {
			return Unique{}, fmt.Errorf("checking name availability for %q: %w", candidate.Name, err)
		}
		if !taken {
			return Unique{Generated: candidate, Retries: attempt}, nil
		}
	}

	fallback, err := fallbackName()
	if err != nil {
		return Unique{}, err
	}

	log.FromContext(ctx).Info("Memorable name generation exhausted retries, using fallback",
		"fallbackName", fallback,
		"retries", cfg.MaxRetries)

	return Unique{Generated: Generated{Name: fallback}, Retries: cfg.MaxRetries, Fallback: true}, nil
}

func fallbackName() (string, error) {
	buf := make([]byte, 4)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", fmt.Errorf("generating fallback name: %w", err)
	}
	return fmt.Sprintf("%s-%x", fallbackPrefix, buf), nil
}
