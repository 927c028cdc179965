package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		wantErr bool
	}{
		{"empty", nil, true},
		{"too short", make([]byte, Size-1), true},
		{"too long", make([]byte, Size+1), true},
		{"exact", make([]byte, Size), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSize)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDigest_HexRoundTrip(t *testing.T) {
	var d Digest
	for i := range d {
		d[i] = byte(i)
	}
	s := d.String()
	require.Equal(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", s)

	got, err := FromHex(s)
	require.NoError(t, err)
	assert.True(t, got.Equal(d))
	assert.Equal(t, "…c1d1e1f", d.Short())

	_, err = FromHex("zz")
	require.Error(t, err)
}

func TestDigest_Bytes(t *testing.T) {
	d := Digest{1}
	b := d.Bytes()
	b[0] = 2
	assert.Equal(t, byte(1), d[0], "Bytes must return a copy")
}

func TestDigest_Less(t *testing.T) {
	assert.True(t, Digest{0, 1}.Less(Digest{1}))
	assert.False(t, Digest{1}.Less(Digest{1}))
	assert.True(t, Digest{}.IsZero())
	assert.False(t, Digest{1}.IsZero())
}
