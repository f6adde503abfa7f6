// Package sqlerr translates database driver errors into API errors.
//
// Postgres SQLSTATE codes (unique, foreign key, not-null, check violations)
// and "no rows" results become errs.HTTPError values with stable codes such
// as MEME_NOT_FOUND or VOTE_ALREADY_EXISTS.
package sqlerr
