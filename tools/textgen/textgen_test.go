package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/pkg/errs"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare json passes through",
			`{"hook":"a"}`,
			`{"hook":"a"}`,
		},
		{
			"markdown fences stripped",
			"```json\n{\"hook\":\"a\"}\n```",
			`{"hook":"a"}`,
		},
		{
			"surrounding prose removed",
			`Sure! Here is the JSON you asked for: {"hook":"a","cta":"b"} Hope that helps.`,
			`{"hook":"a","cta":"b"}`,
		},
		{
			"nested braces keep the outermost object",
			`prefix {"a":{"b":1}} suffix`,
			`{"a":{"b":1}}`,
		},
		{
			"no object returns input trimmed",
			"  not json at all  ",
			"not json at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

// completion server scripted per call: each handler entry serves one
// request in order.
func scriptedServer(t *testing.T, replies []func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Less(t, calls, len(replies), "unexpected extra completion call")
		replies[calls](w, r)
		calls++
	}))
	return srv, &calls
}

func completionReply(content string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}
}

func testGenerator(baseURL string, retries int) Generator {
	cfg := config.Load()
	cfg.OpenAIBaseURL = baseURL
	cfg.OpenAIAPIKey = "test-key"
	cfg.TextModel = "primary"
	cfg.FallbackModel = "fallback"
	cfg.TextGenRetries = retries
	return New(&cfg, logger.NewNop())
}

func TestCodingSnippet(t *testing.T) {
	srv, calls := scriptedServer(t, []func(w http.ResponseWriter, r *http.Request){
		completionReply(`{"difficulty":"MEDIUM","code":"console.log([] + [])","caption":"What is the output?"}`),
	})
	defer srv.Close()

	snippet, err := testGenerator(srv.URL, 2).CodingSnippet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "MEDIUM", snippet.Difficulty)
	assert.Equal(t, "console.log([] + [])", snippet.Code)
	assert.Equal(t, 1, *calls)
}

func TestCodingSnippetRetriesThenFallback(t *testing.T) {
	var models []string
	record := func(r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
	}

	srv, calls := scriptedServer(t, []func(w http.ResponseWriter, r *http.Request){
		func(w http.ResponseWriter, r *http.Request) { record(r); completionReply("not json")(w, r) },
		func(w http.ResponseWriter, r *http.Request) { record(r); completionReply("still not json")(w, r) },
		func(w http.ResponseWriter, r *http.Request) {
			record(r)
			completionReply("```json\n{\"difficulty\":\"HARD\",\"code\":\"x\",\"caption\":\"c\"}\n```")(w, r)
		},
	})
	defer srv.Close()

	snippet, err := testGenerator(srv.URL, 2).CodingSnippet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HARD", snippet.Difficulty)

	// two primary attempts, then one lenient fallback attempt
	assert.Equal(t, 3, *calls)
	assert.Equal(t, []string{"primary", "primary", "fallback"}, models)
}

func TestCodingSnippetAllAttemptsFail(t *testing.T) {
	srv, _ := scriptedServer(t, []func(w http.ResponseWriter, r *http.Request){
		completionReply("junk"),
		completionReply("junk"),
		completionReply("junk"),
	})
	defer srv.Close()

	_, err := testGenerator(srv.URL, 2).CodingSnippet(context.Background())
	require.Error(t, err)

	var textErr *errs.TextGenerationError
	require.True(t, errors.As(err, &textErr))
	// two primary failures plus the fallback failure
	assert.Len(t, textErr.Attempts, 3)
}

func TestCaptionTextEmptyHook(t *testing.T) {
	srv, _ := scriptedServer(t, []func(w http.ResponseWriter, r *http.Request){
		completionReply(`{"hook":"","caption":"c","cta":"x"}`),
	})
	defer srv.Close()

	_, err := testGenerator(srv.URL, 2).CaptionText(context.Background())

	var textErr *errs.TextGenerationError
	require.True(t, errors.As(err, &textErr))
}

func TestCaptionText(t *testing.T) {
	srv, _ := scriptedServer(t, []func(w http.ResponseWriter, r *http.Request){
		completionReply(`{"hook":"I quit my job at 40","caption":"1...","cta":"Comment \"GUIDE\""}`),
	})
	defer srv.Close()

	text, err := testGenerator(srv.URL, 2).CaptionText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "I quit my job at 40", text.Hook)
	assert.Equal(t, `Comment "GUIDE"`, text.CTA)
}
