// Package store persists members. Both implementations enforce email
// uniqueness at write time, independently of any caller pre-check.
package store

// Collection is the MongoDB collection holding members.
const Collection = "members"

// EmailIndexName names the unique index on the email field.
const EmailIndexName = "email_unique"
