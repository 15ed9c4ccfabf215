// Package passhash hashes and verifies passwords with bcrypt.
//
// A hash is self-describing: it carries the algorithm prefix, the cost and the
// salt, so Verify needs nothing but the stored string and the candidate password.
package passhash
