package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinPublicURL(t *testing.T) {
	testCases := []struct {
		base, key, want string
	}{
		{"https://cdn.example", "tournaments/1.json", "https://cdn.example/tournaments/1.json"},
		{"https://cdn.example/", "/tournaments/1.json", "https://cdn.example/tournaments/1.json"},
		{"https://cdn.example/public", "tournaments/2.json", "https://cdn.example/public/tournaments/2.json"},
		{"", "tournaments/1.json", ""},
		{"https://cdn.example", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.base+"|"+tc.key, func(t *testing.T) {
			assert.Equal(t, tc.want, joinPublicURL(tc.base, tc.key))
		})
	}
}

func TestNewR2UploaderRequiresAllFields(t *testing.T) {
	_, err := NewR2Uploader(context.Background(), R2Config{AccountID: "acc", BucketName: "b"})
	assert.ErrorIs(t, err, ErrInvalidR2Config)
}

func TestNoopUploader(t *testing.T) {
	res, err := NoopUploader{}.Upload(context.Background(), "tournaments/1.json", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	assert.Equal(t, "tournaments/1.json", res.Key)
	assert.Empty(t, NoopUploader{}.PublicURL("x"))
}
