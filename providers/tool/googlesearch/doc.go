// Package googlesearch scrapes the Google results page.
//
// No API key is needed. Pages are requested with a text-mode user agent so
// Google serves the light HTML layout, whose result blocks are parsed with
// golang.org/x/net/html. Results are collected with the paginate
// aggregator; offsets advance by the number of blocks a page returned.
package googlesearch
