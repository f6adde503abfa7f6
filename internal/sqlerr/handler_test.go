package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_KnownConstraints(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		TableName:      "battle_votes",
		ConstraintName: "battle_votes_battle_id_voter_id_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "VOTE_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "You have already voted in this battle.", httpErr.Message)
}

func TestHandleError_GenericViolations(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		status  int
		code    string
		message string
	}{
		{
			name:    "foreign key on meme1_id",
			pgErr:   &pgconn.PgError{Code: "23503", TableName: "meme_battles", ColumnName: "meme1_id"},
			status:  http.StatusBadRequest,
			code:    "MEME_BATTLE_NOT_FOUND",
			message: "The referenced Meme does not exist",
		},
		{
			name:    "unique with inferable column",
			pgErr:   &pgconn.PgError{Code: "23505", TableName: "sponsors", ConstraintName: "sponsors_company_key"},
			status:  http.StatusBadRequest,
			code:    "SPONSOR_ALREADY_EXISTS",
			message: "A Sponsor with this Company already exists",
		},
		{
			name:    "not null",
			pgErr:   &pgconn.PgError{Code: "23502", TableName: "comments", ColumnName: "content"},
			status:  http.StatusBadRequest,
			code:    "COMMENT_REQUIRED",
			message: "The Content is required",
		},
		{
			name:    "invalid uuid text",
			pgErr:   &pgconn.PgError{Code: "22P02"},
			status:  http.StatusBadRequest,
			code:    "BAD_REQUEST",
			message: "Invalid identifier",
		},
		{
			name:   "unknown sqlstate",
			pgErr:  &pgconn.PgError{Code: "XX000"},
			status: http.StatusInternalServerError,
			code:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(fmt.Errorf("insert: %w", tt.pgErr)))
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, httpErr.Message)
			}
		})
	}
}

func TestHandleError_NoRows(t *testing.T) {
	err := HandleError(fmt.Errorf("get meme id=1 table:memes: %w", pgx.ErrNoRows))
	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Meme not found", httpErr.Message)

	err = HandleError(pgx.ErrNoRows)
	httpErr = asHTTPError(t, err)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewForbiddenError("Only the creator can close this battle.", true)
	assert.Same(t, original, HandleError(original))
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, Other, MapCode("00000"))
	assert.Equal(t, SeverityError, MapSeverity("weird"))
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23514"})
	assert.Equal(t, CheckViolation, ErrCode(fmt.Errorf("wrap: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

func TestHandleError_UnwrapsHTTPError(t *testing.T) {
	original := errs.NewBadRequestError("Bid too low.", true, nil, nil, nil)
	wrapped := fmt.Errorf("failed to place bid: %w", original)
	assert.Same(t, original, HandleError(wrapped))
}
