// Package output writes scrape results as CSV or JSON.
//
// Records are free-form maps, so the columns are the union of all keys.
// Writes go to a temporary file in the destination directory first and are
// renamed into place.
package output
