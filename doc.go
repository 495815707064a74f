// Package auth implements the account and catalog core for a storefront API:
// token issuance and verification, password hashing, the email confirmation
// lifecycle, and the structural and semantic validation rules applied to user
// and product payloads before they reach the document store.
//
// The package is consumed by a routing layer; it exposes typed request
// payloads, command handlers (RegisterUserHandler, ConfirmAccountHandler),
// the Auther login/authenticate service, and plain validator functions.
// Persistence is abstracted behind the UserStore and ProductStore interfaces,
// implemented by the repository package on top of MongoDB. Outbound email is
// abstracted behind Mailer, implemented by the mailer package over SMTP.
//
// Errors are classified with goliatone/go-errors categories: validation and
// conflict failures are client recoverable and always carry the full list of
// violations, auth failures collapse to opaque credentials errors, and store
// or signing failures surface as internal errors with details kept server side.
package auth
