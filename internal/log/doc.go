// Package log provides structured logging with credential masking.
//
// The scraper is usually configured with a session cookie and sometimes
// custom headers carrying API tokens. Those values must never end up in
// log output, so every logger built here wraps its handler in a
// SecureHandler that masks sensitive attribute values before they are
// written.
package log
