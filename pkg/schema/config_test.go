// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()

	schemaYAML := `
fields:
  - name: plan
    type: enum
    aliases: ["subscription plan", "الباقة"]
    values:
      Basic: ["basic", "أساسية"]
      Premium: ["premium", "مميزة"]
  - name: signup_count
    type: integer
operator_synonyms:
  ">": ["exceeding"]
`

	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(schemaYAML), 0o600))

	registry, err := LoadFile(path)
	require.NoError(t, err)

	field, found := registry.ResolveField("الباقة")
	require.True(t, found)
	require.Equal(t, "plan", field.Name)

	value, found := field.CanonicalValue("مميزة")
	require.True(t, found)
	require.Equal(t, "Premium", value)

	op, found := registry.ResolveOperator("exceeding")
	require.True(t, found)
	require.Equal(t, OpGreater, op)

	// built in synonyms stay available alongside file provided ones
	op, found = registry.ResolveOperator("more than")
	require.True(t, found)
	require.Equal(t, OpGreater, op)
}

func TestLoadFile_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string

		wantErr bool
	}{
		{
			name:    "invalid yaml",
			content: "fields: [unclosed",
			wantErr: true,
		},
		{
			name: "invalid field type",
			content: `
fields:
  - name: plan
    type: geopoint
`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "schema.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			_, err := LoadFile(path)
			require.Error(t, err)
		})
	}
}

func TestLoadFile_missingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}
