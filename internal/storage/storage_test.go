package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hasibdev/blog-api/internal/config"
)

func TestNewLocalCreatesDirectories(t *testing.T) {
	t.Cleanup(func() { os.RemoveAll(uploadBasePath) })

	st, err := New(&config.Config{})
	assert.NoError(t, err)
	assert.Equal(t, "local", st.Mode())

	for _, dir := range []string{uploadBasePath, photosPath} {
		info, err := os.Stat(dir)
		assert.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestKeyFromURL(t *testing.T) {
	st := &Storage{
		useS3:         true,
		bucket:        "blog-media",
		region:        "eu-west-1",
		cloudFrontURL: "https://cdn.example.com",
	}

	tests := []struct {
		url  string
		want string
	}{
		{"https://blog-media.s3.eu-west-1.amazonaws.com/2026/08/abc.jpg", "2026/08/abc.jpg"},
		{"https://cdn.example.com/2026/08/abc.jpg", "2026/08/abc.jpg"},
		{"https://other-bucket.s3.eu-west-1.amazonaws.com/abc.jpg", ""},
		{"/uploads/photos/abc.jpg", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, st.keyFromURL(tt.url), tt.url)
	}
}

func TestDeleteFromLocalRejectsOutsidePaths(t *testing.T) {
	t.Cleanup(func() { os.RemoveAll(uploadBasePath) })

	st, err := New(&config.Config{})
	assert.NoError(t, err)

	assert.Error(t, st.Delete("/etc/passwd"))
	assert.Error(t, st.Delete("/uploads/../storage.go"))

	// Missing files inside the uploads root are reported, not silently ignored.
	assert.Error(t, st.Delete("/uploads/photos/no-such-file.jpg"))
}
