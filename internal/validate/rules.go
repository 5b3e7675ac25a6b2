// Package validate post-processes raw model output before it is trusted as
// structured data. The upstream model is an untrusted oracle: every record it
// produces passes through the date, amount and category validators (in that
// order) before being converted into a typed domain value.
package validate

import (
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/config"
)

const dateFormat = "2006-01-02"

// Rules carries the sanity bounds and fallback defaults applied by the
// validators. Construct it once from configuration and share it; it is
// read-only after construction.
type Rules struct {
	MaxPlausibleAmount       float64
	DefaultTransactionAmount float64
	FutureWindowDays         int
	PastYearWindow           int

	log zerolog.Logger
}

// NewRules builds a Rules from configuration.
func NewRules(cfg config.ValidationConfig, log zerolog.Logger) Rules {
	return Rules{
		MaxPlausibleAmount:       cfg.MaxPlausibleAmount,
		DefaultTransactionAmount: cfg.DefaultTransactionAmount,
		FutureWindowDays:         cfg.FutureWindowDays,
		PastYearWindow:           cfg.PastYearWindow,
		log:                      log,
	}
}

// DefaultRules returns a Rules with the stock thresholds. Used where no
// configuration is wired, e.g. minimal-record synthesis and tests.
func DefaultRules() Rules {
	return Rules{
		MaxPlausibleAmount:       100000,
		DefaultTransactionAmount: 100.0,
		FutureWindowDays:         366,
		PastYearWindow:           1,
		log:                      zerolog.Nop(),
	}
}

// WithLogger returns a copy of r that logs corrections through log.
// Corrections are warnings, never errors: a validator that rewrites a field
// must not fail the extraction.
func (r Rules) WithLogger(log zerolog.Logger) Rules {
	r.log = log
	return r
}
