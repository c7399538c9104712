package triggers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/vetoplot/internal/fsutil"
)

func TestNewSegmentsMerges(t *testing.T) {
	segs := NewSegments(
		Segment{Start: 300, End: 400},
		Segment{Start: 100, End: 200},
		Segment{Start: 150, End: 250},
	)
	assert.Equal(t, Segments{{Start: 100, End: 250}, {Start: 300, End: 400}}, segs)
	assert.Nil(t, NewSegments())
}

func TestSegmentsContains(t *testing.T) {
	segs := NewSegments(Segment{Start: 100, End: 200}, Segment{Start: 300, End: 400})

	tests := []struct {
		t    float64
		want bool
	}{
		{50, false},
		{100, true},
		{199.9, true},
		{200, false},
		{350, true},
		{400, false},
		{1000, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, segs.Contains(tt.t), "t=%v", tt.t)
	}

	var empty Segments
	assert.False(t, empty.Contains(1))
}

func TestReadSegments(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/veto/cat2.txt", []byte("# start end\n100 200\n\n300 400\n"))
	mfs.WriteFile("/veto/cat3.txt", []byte("0 350 500 150\n"))

	segs, err := ReadSegments(mfs, "/veto/cat2.txt", "/veto/cat3.txt")
	require.NoError(t, err)
	assert.Equal(t, Segments{{Start: 100, End: 200}, {Start: 300, End: 500}}, segs)
}

func TestReadSegmentsErrors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/bad/cols.txt", []byte("1 2 3\n"))
	mfs.WriteFile("/bad/num.txt", []byte("one 2\n"))
	mfs.WriteFile("/bad/order.txt", []byte("5 2\n"))

	for _, p := range []string{"/bad/cols.txt", "/bad/num.txt", "/bad/order.txt", "/bad/missing.txt"} {
		_, err := ReadSegments(mfs, p)
		assert.Error(t, err, p)
	}
}
