// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// foreignBuffer satisfies Buffer without coming from bytebufferpool.
type foreignBuffer struct{ bytes.Buffer }

func TestBufferInterface(t *testing.T) {
	tests := []struct {
		name  string
		setup func(buf Buffer)
		want  string
	}{
		{
			name:  "Write byte slice",
			setup: func(buf Buffer) { buf.Write([]byte("hello")) },
			want:  "hello",
		},
		{
			name:  "WriteString",
			setup: func(buf Buffer) { buf.WriteString("test string") },
			want:  "test string",
		},
		{
			name:  "WriteByte",
			setup: func(buf Buffer) { buf.WriteByte('A') },
			want:  "A",
		},
		{
			name: "ReadFrom",
			setup: func(buf Buffer) {
				_, _ = buf.ReadFrom(strings.NewReader("from reader"))
			},
			want: "from reader",
		},
		{
			name: "Multiple operations",
			setup: func(buf Buffer) {
				buf.Write([]byte("hello"))
				buf.WriteString(" test")
				buf.WriteByte('!')
			},
			want: "hello test!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Default.Get()
			defer Default.Put(buf)

			tt.setup(buf)
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, len(tt.want), buf.Len())
			assert.Equal(t, []byte(tt.want), buf.Bytes())
		})
	}
}

func TestPool_PutResetsBuffer(t *testing.T) {
	buf := Default.Get()
	buf.WriteString("sensitive")
	Default.Put(buf)

	assert.Zero(t, buf.Len(), "Put should reset the buffer")
}

func TestPool_PutForeignBuffer(t *testing.T) {
	buf := &foreignBuffer{}
	buf.WriteString("kept")

	assert.NotPanics(t, func() { Default.Put(buf) })
	assert.Equal(t, "kept", buf.String(), "foreign buffers are left untouched")
}

func TestCollect(t *testing.T) {
	t.Run("Returns copy", func(t *testing.T) {
		out, err := Collect(func(buf Buffer) error {
			_, err := buf.WriteString("bundle")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("bundle"), out)

		// A later user of the pool must not alter the returned slice.
		again, err := Collect(func(buf Buffer) error {
			_, err := buf.WriteString("XXXXXX")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("XXXXXX"), again)
		assert.Equal(t, []byte("bundle"), out)
	})

	t.Run("Propagates error", func(t *testing.T) {
		boom := errors.New("boom")
		out, err := Collect(func(buf Buffer) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, out)
	})

	t.Run("Concurrent use", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 32 {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				want := strings.Repeat("x", n)
				out, err := Collect(func(buf Buffer) error {
					_, err := buf.WriteString(want)
					return err
				})
				assert.NoError(t, err)
				assert.Equal(t, want, string(out))
			}(i)
		}
		wg.Wait()
	})
}
