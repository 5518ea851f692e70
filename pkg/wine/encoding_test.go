package wine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeOutput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		enc  string
		want string
	}{
		{name: "utf8 passthrough", data: []byte("hello world"), enc: "utf8", want: "hello world"},
		{name: "empty encoding", data: []byte("passthrough"), enc: "", want: "passthrough"},
		// "café" in CP1252: 'c' 'a' 'f' 0xe9
		{name: "cp1252", data: []byte{0x63, 0x61, 0x66, 0xe9}, enc: "cp1252", want: "café"},
		{name: "cp1252 mixed case", data: []byte{0x63, 0x61, 0x66, 0xe9}, enc: " Windows-1252 ", want: "café"},
		{name: "utf16le", data: []byte{0x48, 0x00, 0x69, 0x00}, enc: "utf16le", want: "Hi"},
		{name: "utf16be", data: []byte{0x00, 0x48, 0x00, 0x69}, enc: "utf16be", want: "Hi"},
		{name: "auto with utf16le BOM", data: []byte{0xFF, 0xFE, 0x41, 0x00}, enc: "auto", want: "A"},
		{name: "auto with utf16be BOM", data: []byte{0xFE, 0xFF, 0x00, 0x41}, enc: "AUTO", want: "A"},
		{name: "auto with utf8 BOM", data: []byte{0xEF, 0xBB, 0xBF, 'o', 'k'}, enc: "auto", want: "ok"},
		{name: "auto without BOM", data: []byte("plain text"), enc: "auto", want: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeOutput(tt.data, tt.enc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeOutput_UnsupportedEncoding(t *testing.T) {
	_, err := DecodeOutput(nil, "ebcdic")
	assert.ErrorContains(t, err, `unknown output encoding "ebcdic"`)

	assert.Error(t, ValidateEncoding("ebcdic"))
	assert.NoError(t, ValidateEncoding("auto"))
	assert.NoError(t, ValidateEncoding(""))
}

func TestDecoderFor_Aliases(t *testing.T) {
	tests := []struct {
		name    string
		wantNil bool
	}{
		{"windows-1252", false},
		{"latin1", false},
		{"iso-8859-1", false},
		{"utf-16le", false},
		{"utf-16be", false},
		{"utf-8", true},
		{"UTF8", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := decoderFor(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNil, enc == nil)
		})
	}

	enc, err := decoderFor("latin1")
	require.NoError(t, err)
	assert.Equal(t, charmap.Windows1252, enc)
}
