// Package series defines the tracked series record and its category rules.
//
// A Record pairs catalog metadata (title, year, genres, ratings, poster and
// season/episode totals) with the state a user enters: a category, an
// optional personal rating, and, for categories that track a stopping point,
// the current season and episode. Construct records through NewRecord so the
// category-dependent progress field and the rating bounds are enforced in one
// place; the store relies on Validate before anything reaches disk.
package series
