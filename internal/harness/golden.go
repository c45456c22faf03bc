package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertTranscript compares a rendered transcript against the golden
// file in testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertTranscript(t *testing.T, name string, transcript []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, transcript)
}
