package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
	"github.com/feichai0017/legaldoc-extractor/pkg/storage/storageerr"
)

type fakeObjects map[string]string

func (f fakeObjects) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	if body == "fail" {
		return nil, errors.New("access denied")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Storage_Get(t *testing.T) {
	store := New(fakeObjects{"cedulas/a.pdf": "%PDF", "x": "fail"}, "documentos", logger.NewTestLogger())

	rc, err := store.Get(context.Background(), "cedulas/a.pdf")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF", string(data))

	_, err = store.Get(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, storageerr.ErrNotFound)

	_, err = store.Get(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storageerr.ErrNotFound)
}
