package contract

import (
	"testing"

	"github.com/LegacyCodeHQ/fence/importgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImportExpression(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ImportExpression
		wantErr bool
	}{
		{name: "simple", input: "a.b -> c.d", want: ImportExpression{Importer: "a.b", Imported: "c.d"}},
		{name: "no spaces", input: "a->b", want: ImportExpression{Importer: "a", Imported: "b"}},
		{name: "wildcard", input: "a.* -> b", want: ImportExpression{Importer: "a.*", Imported: "b"}},
		{name: "missing arrow", input: "a b", wantErr: true},
		{name: "empty importer", input: " -> b", wantErr: true},
		{name: "double arrow", input: "a -> b -> c", wantErr: true},
		{name: "inner space", input: "a b -> c", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseImportExpression(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestImportExpression_Matches(t *testing.T) {
	imp := importgraph.Import{Importer: "app.api.views", Imported: "app.db.models"}

	assert.True(t, ImportExpression{Importer: "app.api.views", Imported: "app.db.models"}.Matches(imp, "."))
	assert.True(t, ImportExpression{Importer: "app.*.views", Imported: "app.db.*"}.Matches(imp, "."))
	assert.False(t, ImportExpression{Importer: "app.*", Imported: "app.db.models"}.Matches(imp, "."))
	assert.False(t, ImportExpression{Importer: "app.api.views", Imported: "app.db"}.Matches(imp, "."))

	goImp := importgraph.Import{Importer: "example.com/app/api", Imported: "example.com/app/db"}
	assert.True(t, ImportExpression{Importer: "example.com/app/*", Imported: "example.com/app/db"}.Matches(goImp, "/"))
}

func TestImportExpression_String(t *testing.T) {
	assert.Equal(t, "a -> b", ImportExpression{Importer: "a", Imported: "b"}.String())
}
