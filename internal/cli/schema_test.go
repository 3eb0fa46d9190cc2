package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() *cobra.Command {
	root := &cobra.Command{Use: "faq", Short: "root"}
	root.PersistentFlags().String("api-url", "", "API base URL")
	AddHelpJSONFlag(root)

	add := &cobra.Command{Use: "add", Short: "Create an entry", Aliases: []string{"new"}, RunE: func(*cobra.Command, []string) error { return nil }}
	add.Flags().StringP("question", "q", "", "Question text")
	_ = add.MarkFlagRequired("question")
	root.AddCommand(add)

	return root
}

func TestGenerateSchema(t *testing.T) {
	root := testTree()
	root.InitDefaultHelpCmd()

	schema := GenerateSchema(root)

	assert.Equal(t, "faq", schema.Name)
	require.Len(t, schema.Subcommands, 1)

	add := schema.Subcommands[0]
	assert.Equal(t, []string{"new"}, add.Aliases)

	byName := map[string]FlagSchema{}
	for _, f := range add.Flags {
		byName[f.Name] = f
	}
	assert.True(t, byName["question"].Required)
	assert.Equal(t, "q", byName["question"].Shorthand)
	assert.True(t, byName["api-url"].Inherited)
	_, hasHelpJSON := byName["help-json"]
	assert.False(t, hasHelpJSON)
}

func TestCheckHelpJSON(t *testing.T) {
	root := testTree()
	var out bytes.Buffer
	root.SetOut(&out)

	handled := CheckHelpJSON(root, []string{"new", "--help-json"})

	require.True(t, handled)
	var schema CommandSchema
	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	assert.Equal(t, "add", schema.Name)
}

func TestCheckHelpJSON_Absent(t *testing.T) {
	assert.False(t, CheckHelpJSON(testTree(), []string{"add", "-q", "x"}))
}
