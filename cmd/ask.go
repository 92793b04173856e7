package cmd

import (
	"codycli/internal/application/common/logging"
	"codycli/internal/application/dto"
	"codycli/internal/client"
	"codycli/internal/domain/valueobject"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// runAsk answers --message, optionally with context from --context-repo.
func runAsk(cmd *cobra.Command, opts *rootOptions) error {
	if opts.message == "" {
		return opts.fail(cmd, ErrMissingMessage)
	}

	cfg, err := opts.validConfig(cmd)
	if err != nil {
		return err
	}

	ctx := logging.EnsureCorrelationID(cmd.Context())

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return opts.fail(cmd, err)
	}
	defer app.shutdown(ctx)

	request := dto.AskRequest{
		Query:           opts.message,
		RepositoryNames: opts.contextRepos,
		Model:           cfg.Chat.Model,
	}
	var progress *streamProgress
	if opts.stream {
		progress = &streamProgress{w: cmd.ErrOrStderr()}
		request.OnCompletion = progress.update
	}

	resp, err := app.chatService().Ask(ctx, request)
	if progress != nil {
		progress.finish()
	}
	if err != nil {
		return opts.fail(cmd, err)
	}

	if opts.output == client.FormatJSON {
		return client.WriteSuccess(cmd.OutOrStdout(), resp)
	}

	if resp.Context.Outcome == valueobject.OutcomeDegraded.String() {
		note := color.New(color.FgYellow)
		note.Fprintln(cmd.ErrOrStderr(), "note: repository context could not be fully retrieved; the answer may not reflect it")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
	return err
}

// streamProgress echoes completion snapshots as they arrive. Snapshots carry
// the whole answer so far, so only the new suffix is written.
type streamProgress struct {
	w       io.Writer
	printed string
}

func (p *streamProgress) update(completion string) {
	if strings.HasPrefix(completion, p.printed) {
		fmt.Fprint(p.w, completion[len(p.printed):])
	} else {
		fmt.Fprint(p.w, "\n"+completion)
	}
	p.printed = completion
}

func (p *streamProgress) finish() {
	if p.printed != "" {
		fmt.Fprintln(p.w)
	}
}
