// Package textutil provides text processing utilities for fuzzy word
// similarity and filename sanitization.
//
// The primary use cases are:
//   - Computing a difflib-compatible similarity ratio between transcript words
//   - Sanitizing names and path segments for safe filesystem use
//
// The similarity ratio uses the Ratcliff/Obershelp algorithm over runes so
// non-Latin scripts (Devanagari in particular) compare correctly.
package textutil
