// Package textutil turns transcript text into word tokens.
//
// Tokens are produced by splitting on Unicode whitespace after optional
// normalization:
//   - NFC composition so precomposed and decomposed accents compare equal
//   - full Unicode case folding
//
// No language-aware segmentation is attempted; a token is whatever lies
// between two runs of whitespace.
package textutil
