package lexicon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wortdrill/internal/lexicon"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "words.json", `[
		{"word": "der Tisch, -e", "zh_cn": "桌子"},
		{"word": "  ", "zh_cn": "blank"},
		{"word": "das Haus, ¨er", "zh_cn": "房子", "phonetic": "/haʊ̯s/"},
		{"word": "der Tisch, -e", "zh_cn": "duplicate"}
	]`)

	words, err := lexicon.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []models.Word{
		{Word: "der Tisch, -e", ZhCN: "桌子"},
		{Word: "das Haus, ¨er", ZhCN: "房子", Phonetic: "/haʊ̯s/"},
	}, words)
}

func TestLoad_EmptyJSON(t *testing.T) {
	path := writeFile(t, "words.json", `[]`)

	words, err := lexicon.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestLoad_CSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "with header", content: "word,zh_cn,phonetic\nder Hund,狗,\n\"die Katze, -n\",猫,/ˈkat͡sə/\n"},
		{name: "reordered header", content: "zh_cn,word\n狗,der Hund\n猫,\"die Katze, -n\"\n"},
		{name: "no header", content: "der Hund,狗\n\"die Katze, -n\",猫,/ˈkat͡sə/\n,,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "words.csv", tt.content)

			words, err := lexicon.Load(context.Background(), path)
			require.NoError(t, err)
			require.Len(t, words, 2)
			assert.Equal(t, "der Hund", words[0].Word)
			assert.Equal(t, "狗", words[0].ZhCN)
			assert.Equal(t, "die Katze, -n", words[1].Word)
		})
	}
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"word", "zh_cn", "phonetic"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"der Lehrer, -", "老师"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"das Museum, -en", "博物馆", "/muˈzeːʊm/"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	words, err := lexicon.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []models.Word{
		{Word: "der Lehrer, -", ZhCN: "老师"},
		{Word: "das Museum, -en", ZhCN: "博物馆", Phonetic: "/muˈzeːʊm/"},
	}, words)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := lexicon.Load(ctx, writeFile(t, "words.txt", "der Hund"))
	assert.ErrorIs(t, err, lexicon.ErrUnsupportedFormat)

	_, err = lexicon.Load(ctx, writeFile(t, "words.json", `{"word": "der Hund"}`))
	assert.Error(t, err)

	_, err = lexicon.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "words.json")
	words := []models.Word{
		{Word: "der Tisch, -e", ZhCN: "桌子", Phonetic: "/tɪʃ/"},
		{Word: "die Lampe, -n", ZhCN: "灯"},
	}

	require.NoError(t, lexicon.Save(path, words))

	loaded, err := lexicon.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, words, loaded)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
