package envcore

import "errors"

// ErrUnregisteredLanguage is returned by Analyze when languageTag has no
// internal/langdesc.Descriptor registered for it (spec.md §7's first
// error condition).
var ErrUnregisteredLanguage = errors.New("envcore: unregistered language")

// ErrUnknownDocument names the unknown-document condition. No Core method
// returns it: for a docID that has never been analyzed (or was Closed),
// Classify reports resolver.None and DirectReferences/Symbols return nil.
var ErrUnknownDocument = errors.New("envcore: unknown document")

// Is reports whether err wraps target, delegating to errors.Is. Exported
// so callers don't need a second import just to compare against the
// sentinels above.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
