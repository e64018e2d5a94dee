// Package dcf computes a discounted-cash-flow equity valuation from a small
// set of financial assumptions.
//
// The core is a stateless valuation engine:
//   - Assumptions: revenue, free cash flow, four independent growth rates,
//     terminal growth, discount rate and balance-sheet figures, all rates
//     expressed as fractions.
//   - Compute: projects revenue and free cash flow over a ten year horizon,
//     discounts them, adds a Gordon-growth terminal value and derives the
//     enterprise value, the equity value and a fair value per share.
//   - Valuation: the year-by-year projection rows and the summary metrics,
//     including the margin of safety against the market price and a BUY/SELL
//     recommendation.
//
// The package also hosts the input collector used by the `dcf` command-line
// tool: raw form fields (Input), percent parsing, decoding of assumption
// files (YAML, JSON, HJSON), JSONPath extraction from arbitrary documents and
// named presets. Rendering lives in the renderer package.
package dcf
