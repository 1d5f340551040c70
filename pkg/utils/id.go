package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRunID returns a short random identifier used to correlate the log
// lines of a single pipeline run.
func GenerateRunID() string {
	id, err := gonanoid.Generate(characters, 8)
	if err != nil {
		return "unknown"
	}
	return id
}
