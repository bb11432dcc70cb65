// Package conv collects tiny helper functions that are not part of the public API
// but aid internal conversions of loosely typed JSON values.
package conv
