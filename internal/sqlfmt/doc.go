// Package sqlfmt normalises the layout of SQL text: fixed-vocabulary
// keyword casing, clause-per-line breaks, and comma splits.
//
// The formatter is a pure text transform and is idempotent: formatting
// already-formatted SQL returns it unchanged. It is deliberately not a
// SQL parser. Matching is whole-word and whitespace-tolerant, so a
// keyword split across a soft line wrap is still recognised, but
// quoted literals are not protected: a string literal containing the
// word FROM gets the same treatment as the clause keyword. Tests pin
// that behaviour so any change to it is deliberate.
package sqlfmt
