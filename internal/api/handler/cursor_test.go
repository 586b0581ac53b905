package handler

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/kernelci/lava-bridge/internal/api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 10, 30, 0, 123456789, time.UTC)
	original := &storage.JobCursor{
		CreatedAt: createdAt,
		JobID:     "550e8400-e29b-41d4-a716-446655440000",
	}

	encoded := EncodeJobCursor(original)
	decoded, err := DecodeJobCursor(encoded)

	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, original.JobID, decoded.JobID)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
}

func TestDecodeJobCursor(t *testing.T) {
	tests := []struct {
		name    string
		cursor  string
		wantErr bool
		wantNil bool
	}{
		{
			name:    "empty cursor means first page",
			cursor:  "",
			wantNil: true,
		},
		{
			name:    "not base64",
			cursor:  "not-valid-base64!!!",
			wantErr: true,
		},
		{
			name:    "missing separator",
			cursor:  base64.StdEncoding.EncodeToString([]byte("1234567890")),
			wantErr: true,
		},
		{
			name:    "empty job id",
			cursor:  base64.StdEncoding.EncodeToString([]byte("1234567890|")),
			wantErr: true,
		},
		{
			name:    "non-numeric timestamp",
			cursor:  base64.StdEncoding.EncodeToString([]byte("abc|some-job-id")),
			wantErr: true,
		},
		{
			name:   "valid cursor",
			cursor: base64.StdEncoding.EncodeToString([]byte("1710498600000000000|some-job-id")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor, err := DecodeJobCursor(tt.cursor)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, cursor)
			} else {
				require.NotNil(t, cursor)
				assert.Equal(t, "some-job-id", cursor.JobID)
			}
		})
	}
}
