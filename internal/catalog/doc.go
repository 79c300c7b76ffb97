// Package catalog enumerates the episodes of each configured series from
// its external playlist source.
package catalog
