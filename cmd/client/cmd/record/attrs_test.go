package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "vendor.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"DisplayName":"Acme","Active":true}`), 0600))

	tests := []struct {
		name    string
		file    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "string and json values",
			pairs: []string{"DisplayName=Acme", "Balance=12.5", `BillAddr={"City":"Kyiv"}`},
			want: map[string]any{
				"DisplayName": "Acme",
				"Balance":     12.5,
				"BillAddr":    map[string]any{"City": "Kyiv"},
			},
		},
		{
			name:  "pairs override file",
			file:  file,
			pairs: []string{"Active=false"},
			want:  map[string]any{"DisplayName": "Acme", "Active": false},
		},
		{
			name:    "missing separator",
			pairs:   []string{"DisplayName"},
			wantErr: true,
		},
		{
			name:    "missing file",
			file:    filepath.Join(dir, "nope.json"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAttributes(tt.file, tt.pairs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Acme", title(map[string]any{"DisplayName": "Acme", "Name": "x"}))
	assert.Equal(t, "1001", title(map[string]any{"DocNumber": "1001"}))
	assert.Equal(t, "Без названия", title(nil))
}
