// Package fetch downloads episode media through an external extractor,
// enforcing the retry budget, backoff, and artifact verification policy.
package fetch
