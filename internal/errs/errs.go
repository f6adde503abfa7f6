// Package errs defines the error shapes returned to API clients.
//
// Every failure leaves the API as an HTTPError so clients get one consistent
// JSON body: a machine code, a message, optional field-level errors and an
// optional action hint.
package errs
