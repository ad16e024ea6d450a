package util

import gonanoid "github.com/matoous/go-nanoid/v2"

// NewID returns a 16 letter account id.
func NewID() (string, error) {
	return gonanoid.Generate(charset, 16)
}
