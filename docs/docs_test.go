package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var spec struct {
		Swagger string                    `json:"swagger"`
		Info    map[string]any            `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	assert.Equal(t, "2.0", spec.Swagger)
	assert.Equal(t, "Asset Detail API", spec.Info["title"])
	assert.Contains(t, spec.Paths, "/api/assets/{id}")
	assert.Contains(t, spec.Paths, "/api/assets/{id}/chart")
	assert.Contains(t, spec.Paths, "/api/assets/stream")
	assert.Contains(t, spec.Paths["/api/assets/{id}/query"], "delete")
}
