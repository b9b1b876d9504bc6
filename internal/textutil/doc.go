// Package textutil normalizes poster folder names into stable keys and
// display labels, and provides token similarity helpers for matching
// user-entered names against the index.
//
// Folder names arrive as CamelCase, snake_case, kebab-case, or glued words.
// Normalization splits them into tokens, derives a lowercase snake_case key,
// and builds a Title Case label that preserves known acronyms. Studio names
// additionally detect franchise prefixes and render "Franchise - Title"
// display names.
package textutil
