// Package auth hashes dashboard passwords and issues session tokens.
//
// Passwords are stored as bcrypt hashes. Tokens carry a base64 payload of
// "<email>:<epoch-millis>" followed by an HMAC-SHA256 signature, and expire
// after the configured lifetime.
package auth
