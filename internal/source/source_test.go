package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vinylchat/internal/source/mocks"
)

func TestS3Source_Fetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	getter := mocks.NewMockObjectGetter(ctrl)
	getter.EXPECT().
		GetObject(gomock.Any(), &s3.GetObjectInput{Bucket: aws.String("vinyl"), Key: aws.String("discogs.csv")}).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("Artist,Title\n"))}, nil)

	src := NewS3Source(getter, "vinyl", "discogs.csv")
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Artist,Title\n", string(data))
	assert.Equal(t, "s3://vinyl/discogs.csv", src.String())
}

func TestS3Source_FetchErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		mockSetup func(*mocks.MockObjectGetter)
		wantErr   string
	}{
		{
			name: "client error",
			mockSetup: func(m *mocks.MockObjectGetter) {
				m.EXPECT().GetObject(gomock.Any(), gomock.Any()).Return(nil, errors.New("access denied"))
			},
			wantErr: "access denied",
		},
		{
			name: "nil body",
			mockSetup: func(m *mocks.MockObjectGetter) {
				m.EXPECT().GetObject(gomock.Any(), gomock.Any()).Return(&s3.GetObjectOutput{}, nil)
			},
			wantErr: "empty response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getter := mocks.NewMockObjectGetter(ctrl)
			tt.mockSetup(getter)

			_, err := NewS3Source(getter, "vinyl", "discogs.csv").Fetch(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "s3://vinyl/discogs.csv")
		})
	}
}

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.csv")
	require.NoError(t, os.WriteFile(path, []byte("Artist\nGrimes\n"), 0o644))

	data, err := NewFileSource(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Artist\nGrimes\n", string(data))

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.csv")).Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource(path).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	src, err := New(context.Background(), Options{File: "collection.csv"})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = New(context.Background(), Options{Bucket: "vinyl", Region: "us-east-1", File: "ignored.csv"})
	require.NoError(t, err)
	s3src, ok := src.(*S3Source)
	require.True(t, ok)
	assert.Equal(t, "s3://vinyl/"+DefaultKey, s3src.String())

	_, err = New(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoSource)
}
