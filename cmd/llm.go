package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/flashdeck/internal/llm"
	"github.com/abhisek/flashdeck/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded card generation, hint and details requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		opts, err := llmListOpts(cmd.Flags(), time.Now())
		if err != nil {
			return err
		}

		events, err := s.store.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query llm events: %w", err)
		}
		writeLLMEvents(cmd.OutOrStdout(), events)
		return nil
	}),
}

// llmListOpts builds the event query from the list flags.
func llmListOpts(flags *pflag.FlagSet, now time.Time) (store.QueryOpts, error) {
	var opts store.QueryOpts
	var err error
	if opts.Limit, err = flags.GetInt("limit"); err != nil {
		return opts, fmt.Errorf("read --limit: %w", err)
	}
	if opts.Purpose, err = flags.GetString("purpose"); err != nil {
		return opts, fmt.Errorf("read --purpose: %w", err)
	}
	since, err := flags.GetDuration("since")
	if err != nil {
		return opts, fmt.Errorf("read --since: %w", err)
	}
	if since > 0 {
		opts.From = now.Add(-since)
	}
	return opts, nil
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("event id must be a number, got %q", args[0])
		}
		e, err := s.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get llm event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no llm event with id %d", id)
		}
		writeLLMEvent(cmd.OutOrStdout(), e)
		return nil
	}),
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show token usage and estimated cost per model",
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		usage, err := s.store.EventRepo().LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query llm usage: %w", err)
		}
		writeLLMUsage(cmd.OutOrStdout(), usage)
		return nil
	}),
}

func writeLLMEvents(out io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM requests recorded.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPURPOSE\tMODEL\tIN\tOUT\tMS\tOK")
	for _, e := range events {
		ok := "yes"
		if !e.Success {
			ok = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, truncate(e.Model, 32),
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
	}
	w.Flush()
}

func writeLLMEvent(out io.Writer, e *store.LLMRequestEvent) {
	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", e.ID)
	fmt.Fprintf(w, "Time:\t%s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "Provider:\t%s\n", e.Provider)
	fmt.Fprintf(w, "Model:\t%s\n", e.Model)
	fmt.Fprintf(w, "Purpose:\t%s\n", e.Purpose)
	fmt.Fprintf(w, "Tokens:\t%d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:\t%dms\n", e.LatencyMs)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:\t%s\n", e.ErrorMessage)
	}
	w.Flush()

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintf(out, "\n── %s %s\n", part.title, strings.Repeat("─", 56-len(part.title)))
		if part.body == "" {
			fmt.Fprintln(out, "(empty)")
			continue
		}
		fmt.Fprintln(out, strings.TrimRight(part.body, "\n"))
	}
}

func writeLLMUsage(out io.Writer, usage []store.LLMUsage) {
	if len(usage) == 0 {
		fmt.Fprintln(out, "No LLM usage recorded.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MODEL\tCALLS\tFAILED\tINPUT\tOUTPUT\tCOST\t")

	var total store.LLMUsage
	for _, u := range usage {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			cost = formatCost(c.Cost(u.InputTokens, u.OutputTokens))
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t\n",
			truncate(u.Model, 32), u.Requests, u.Failures, u.InputTokens, u.OutputTokens, cost)
		total.Requests += u.Requests
		total.Failures += u.Failures
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
	}

	sum, unknown := llm.EstimateCost(usage)
	label := "total"
	if len(unknown) > 0 {
		label = "total (partial)"
	}
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t\n",
		label, total.Requests, total.Failures, total.InputTokens, total.OutputTokens, formatCost(sum))
	w.Flush()

	if len(unknown) > 0 {
		fmt.Fprintf(out, "\nNo pricing for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd > 0 && usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show card-generation, hint or details requests")
	llmListCmd.Flags().Duration("since", 0, "Only show requests newer than this (e.g. 24h)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmUsageCmd)
}
