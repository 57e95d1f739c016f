package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Recording ")
	assert.True(t, ok)
	assert.Equal(t, KindRecording, k)

	_, ok = ParseKind("avatar")
	assert.False(t, ok)
}

func TestExtension(t *testing.T) {
	tests := []struct {
		kind Kind
		ct   string
		ext  string
		ok   bool
	}{
		{KindPresentation, "application/pdf", ".pdf", true},
		{KindPresentation, "Application/PDF; charset=binary", ".pdf", true},
		{KindPresentation, "video/mp4", "", false},
		{KindRecording, "video/webm", ".webm", true},
		{KindRecording, "text/html", "", false},
	}
	for _, tt := range tests {
		ext, ok := Extension(tt.kind, tt.ct)
		assert.Equal(t, tt.ok, ok, tt.ct)
		assert.Equal(t, tt.ext, ext, tt.ct)
	}
}

func TestSubmissionKey(t *testing.T) {
	org, team := uuid.New(), uuid.New()
	key := SubmissionKey(org, team, KindPresentation, ".pdf")
	prefix := "submissions/" + org.String() + "/" + team.String() + "/presentation/"
	assert.True(t, strings.HasPrefix(key, prefix), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, SubmissionKey(org, team, KindPresentation, ".pdf"))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://subs.s3.eu-west-1.amazonaws.com/a/b.pdf",
		ObjectURL(S3Config{Bucket: "subs", Region: "eu-west-1"}, "a/b.pdf"))
	assert.Equal(t, "http://localhost:9000/subs/a/b.pdf",
		ObjectURL(S3Config{Bucket: "subs", Endpoint: "http://localhost:9000/"}, "a/b.pdf"))
}
