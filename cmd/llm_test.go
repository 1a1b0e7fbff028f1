package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashdeck/internal/llm"
	"github.com/abhisek/flashdeck/internal/store"
)

func TestWriteLLMUsage(t *testing.T) {
	var out bytes.Buffer
	writeLLMUsage(&out, []store.LLMUsage{
		{Model: "claude-haiku-4-5-20251001", Requests: 4, Failures: 1, InputTokens: 1_000_000, OutputTokens: 200_000},
		{Model: "homegrown-7b", Requests: 2, InputTokens: 500},
	})

	got := out.String()
	assert.Contains(t, got, "claude-haiku-4-5-20251001")
	assert.Contains(t, got, "$2.00")
	assert.Contains(t, got, "total (partial)")
	assert.Contains(t, got, "No pricing for: homegrown-7b")
}

func TestWriteLLMEvents(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	events := st.EventRepo()
	require.NoError(t, events.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: llm.ProviderMock, Model: "mock", Purpose: llm.PurposeHint,
		Success: true, RequestBody: "[user]\nFront: Xylem", ResponseBody: `{"hint":"Think water."}`,
	}))
	list, err := events.QueryLLMEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	var out bytes.Buffer
	writeLLMEvents(&out, list)
	assert.Contains(t, out.String(), "hint")
	assert.Contains(t, out.String(), "yes")

	out.Reset()
	writeLLMEvent(&out, &list[0])
	assert.Contains(t, out.String(), "Front: Xylem")
	assert.Contains(t, out.String(), `{"hint":"Think water."}`)

	out.Reset()
	writeLLMEvents(&out, nil)
	assert.Equal(t, "No LLM requests recorded.\n", out.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Photosyn…", truncate("Photosynthesis", 9))
}

func TestLLMListOpts(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("reads flags", func(t *testing.T) {
		flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
		flags.IntP("limit", "n", 20, "")
		flags.StringP("purpose", "p", "", "")
		flags.Duration("since", 0, "")
		require.NoError(t, flags.Parse([]string{"-n", "5", "--purpose", "hint", "--since", "24h"}))

		opts, err := llmListOpts(flags, now)
		require.NoError(t, err)
		assert.Equal(t, 5, opts.Limit)
		assert.Equal(t, "hint", opts.Purpose)
		assert.Equal(t, now.Add(-24*time.Hour), opts.From)
	})

	t.Run("no since leaves range open", func(t *testing.T) {
		flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
		flags.Int("limit", 20, "")
		flags.String("purpose", "", "")
		flags.Duration("since", 0, "")

		opts, err := llmListOpts(flags, now)
		require.NoError(t, err)
		assert.Equal(t, 20, opts.Limit)
		assert.True(t, opts.From.IsZero())
	})

	t.Run("missing flag is an error", func(t *testing.T) {
		flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
		flags.Int("limit", 20, "")
		flags.Duration("since", 0, "")

		_, err := llmListOpts(flags, now)
		assert.ErrorContains(t, err, "--purpose")
	})
}
