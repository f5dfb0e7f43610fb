// Package resolver turns a free-text series title into a catalog descriptor.
//
// Lookup searches TMDB and takes the first result as the match: there is no
// disambiguation or fuzzy ranking, so a vague query resolves to whatever the
// catalog ranks first. Genre ids are resolved through a table fetched once per
// Resolver; when that fetch fails the table stays empty and every genre
// renders as "Unknown". A failed details call still yields a descriptor, just
// without an episode count. Only a failed or empty search makes the lookup
// return ErrNotFound.
package resolver
