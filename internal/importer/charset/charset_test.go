package charset_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/importer/charset"
)

func TestNewUTF8Reader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		want     string
		wantName string
	}{
		{
			name:     "UTF8Passthrough",
			input:    []byte("Descrição;Montante\nCafé;12,50\nOperação;-3,00\n"),
			want:     "Descrição;Montante\nCafé;12,50\nOperação;-3,00\n",
			wantName: "UTF-8",
		},
		{
			// ç = 0xE7, ã = 0xE3
			name: "Latin1",
			input: []byte{
				'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
				'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
			},
			want: "Descrição;Montante\n",
		},
		{
			name:     "UTF8BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("Descrição;Montante\n")...),
			want:     "Descrição;Montante\n",
			wantName: "UTF-8",
		},
		{
			name:     "UTF16LEBOM",
			input:    []byte{0xFF, 0xFE, 'O', 0, 'K', 0},
			want:     "OK",
			wantName: "UTF-16LE",
		},
		{
			name:     "Empty",
			input:    nil,
			want:     "",
			wantName: "UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, name, err := charset.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			if tt.wantName != "" {
				assert.Equal(t, tt.wantName, name)
			}
		})
	}
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	input := bytes.Repeat([]byte("Café;1,00\n"), 1000)

	r, name, err := charset.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", name)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}
