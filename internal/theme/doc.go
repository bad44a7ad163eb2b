// Package theme produces the seed words that anchor a crossword around its
// topic. Providers implement a single lookup contract; the layout engine
// merges one primary provider with any number of fallbacks and never sees
// where a word came from. A file-backed cache keeps LLM outputs so the same
// request is not paid for twice.
package theme
