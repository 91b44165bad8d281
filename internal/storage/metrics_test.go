package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusObserver_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	o.RecordUpload(UserAvatars, 10*time.Millisecond, 2048, nil)
	o.RecordUpload(UserAvatars, 10*time.Millisecond, 4096, errors.New("boom"))
	o.RecordOperation("delete", ProjectMedia, time.Millisecond, errors.New("boom"))
	o.RecordRejected(UserAvatars)
	o.RecordRejected(UserAvatars)

	assert.Equal(t, 2048.0, testutil.ToFloat64(o.bytesSent.WithLabelValues("user-avatars")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.failures.WithLabelValues("upload", "user-avatars")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.failures.WithLabelValues("delete", "project-media")))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.rejected.WithLabelValues("user-avatars")))
}

func TestPrometheusObserver_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheusObserver("", reg)
	require.NoError(t, err)
	second, err := NewPrometheusObserver("", reg)
	require.NoError(t, err)

	second.RecordRejected(BlogImages)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.rejected.WithLabelValues("blog-images")))
}

func TestPrometheusObserver_NilSafe(t *testing.T) {
	var o *PrometheusObserver
	assert.NotPanics(t, func() {
		o.RecordUpload(UserAvatars, 0, 1, nil)
		o.RecordOperation("list", UserAvatars, 0, nil)
		o.RecordRejected(UserAvatars)
	})
}
