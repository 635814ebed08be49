package cloudwriter

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	bucket string
	key    string
	body   []byte
	calls  int
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	putter := &fakePutter{}
	factory := NewS3WriterFactoryWithClient(context.Background(), putter)

	w, err := factory.NewWriter("sim-bucket", "freshsim/ledger_snapshot_events/data.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	assert.Equal(t, 0, putter.calls)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, 1, putter.calls)
	assert.Equal(t, "sim-bucket", putter.bucket)
	assert.Equal(t, "freshsim/ledger_snapshot_events/data.parquet", putter.key)
	assert.Equal(t, []byte("PAR1data"), putter.body)

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestS3WriterRequiresBucket(t *testing.T) {
	factory := NewS3WriterFactoryWithClient(context.Background(), &fakePutter{})
	_, err := factory.NewWriter("", "key")
	assert.Error(t, err)
}
