// Package mail issues and redeems the one-time verification codes that gate
// registration.
//
// A Mailer generates a numeric code, records it in a CodeStore under the
// recipient's address and hands a Message to a Sender. Redeeming a code
// consumes it, so each code admits at most one registration.
package mail
