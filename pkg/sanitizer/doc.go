// Package sanitizer normalizes client-supplied strings before validation
// and persistence: collapsing whitespace, stripping control characters and
// canonicalizing emails and phone numbers. Sanitizing never rejects input;
// that is the validators' job.
package sanitizer
