// Copyright 2024 The tinychain Authors
// This file is part of the tinychain library.
//
// The tinychain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tinychain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tinychain library. If not, see <http://www.gnu.org/licenses/>.

// Package metrics thinly wraps rcrowley/go-metrics so callers register
// named counters and meters without touching the registry directly.
package metrics

import (
	gometrics "github.com/rcrowley/go-metrics"
)

// Enabled toggles metrics collection globally.
var Enabled = true

type Counter = gometrics.Counter
type Meter = gometrics.Meter

// NewRegisteredCounter registers and returns a named counter in the default
// registry, or a no-op counter when metrics are disabled.
func NewRegisteredCounter(name string, r gometrics.Registry) Counter {
	if !Enabled {
		return new(gometrics.NilCounter)
	}
	if r == nil {
		r = gometrics.DefaultRegistry
	}
	return gometrics.GetOrRegisterCounter(name, r)
}

// NewRegisteredMeter registers and returns a named meter in the default
// registry, or a no-op meter when metrics are disabled.
func NewRegisteredMeter(name string, r gometrics.Registry) Meter {
	if !Enabled {
		return new(gometrics.NilMeter)
	}
	if r == nil {
		r = gometrics.DefaultRegistry
	}
	return gometrics.GetOrRegisterMeter(name, r)
}
