// Copyright 2020 OpenSSF Scorecard Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds environment-driven options for the CLI wrapper
// around the verification core. The core itself takes no configuration
// (see verify.Options for the only caller-supplied knobs it accepts).
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Options configures cmd/sigverify.
type Options struct {
	LogLevel string `env:"SIGVERIFY_LOG_LEVEL"`
	Format   string `env:"SIGVERIFY_FORMAT"`
}

const (
	// DefaultLogLevel is used when SIGVERIFY_LOG_LEVEL is unset.
	DefaultLogLevel = "info"
	// DefaultFormat is used when SIGVERIFY_FORMAT is unset.
	DefaultFormat = "text"
)

// New reads Options from the environment, defaulting unset fields.
func New() *Options {
	opts := &Options{}
	if err := env.Parse(opts); err != nil {
		fmt.Printf("could not parse env vars, using default options: %v", err)
	}
	if opts.LogLevel == "" {
		opts.LogLevel = DefaultLogLevel
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	return opts
}
