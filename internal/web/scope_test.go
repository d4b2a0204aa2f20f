package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare origin", raw: "http://localhost:8080", want: "http://localhost:8080/"},
		{name: "with path", raw: "https://example.test/app/", want: "https://example.test/app/"},
		{name: "no scheme", raw: "example.test", wantErr: true},
		{name: "ftp", raw: "ftp://example.test/", wantErr: true},
		{name: "no host", raw: "http:///x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScope(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestScope_Resolve(t *testing.T) {
	s, err := ParseScope("https://example.test/app/")
	require.NoError(t, err)

	got, err := s.Resolve("/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/", got)

	got, err = s.Resolve("main.js")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/app/main.js", got)

	got, err = s.Resolve("https://cdn.test/x.css")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/x.css", got)
}
