// Package main hosts the seriestrack CLI entrypoint and command graph.
//
// Commands resolve series against TMDB and keep the personal list in the
// record store: lookup, add, list, rate, progress, remove, find, export and
// config scaffolding. Configuration, logging, the store and the resolver are
// built lazily by commandContext so each subcommand only pays for what it
// uses.
package main
