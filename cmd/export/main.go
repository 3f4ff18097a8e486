// Command export drives the workflow from the shell: commit a draft, export a commit to
// other locales, or force a document or a single widget over their drafts.
//
//	export --draft p-en-d
//	export --commit 6651... --locales fr,de
//	export --doc p-en-d --force --locales fr
//	export --doc p-en-d --node w1 --locales fr
//	export --issue-token alice
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/app"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/config"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tokens"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/workflow"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/logger"
)

type options struct {
	draft   string
	commit  string
	doc     string
	node    string
	locales []string
	force   bool
	actor   string
	issue   string
	ttl     time.Duration
}

var errUsage = errors.New("usage")

func parse(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.draft, "draft", "", "commit this draft document to live")
	fs.StringVar(&o.commit, "commit", "", "export this commit")
	fs.StringVar(&o.doc, "doc", "", "source document for --force or --node")
	fs.StringVar(&o.node, "node", "", "widget id to force into the target drafts")
	fs.StringSliceVar(&o.locales, "locales", nil, "target locales, comma separated")
	fs.BoolVar(&o.force, "force", false, "overwrite the target drafts with the source document")
	fs.StringVar(&o.actor, "actor", "cli", "name recorded on commits and submissions")
	fs.StringVar(&o.issue, "issue-token", "", "print a JWT for this subject signed with JWT_SECRET")
	fs.DurationVar(&o.ttl, "ttl", time.Hour, "lifetime of an issued token")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	modes := 0
	for _, set := range []bool{o.draft != "", o.commit != "", o.doc != "", o.issue != ""} {
		if set {
			modes++
		}
	}
	switch {
	case modes != 1:
		return nil, fmt.Errorf("%w: exactly one of --draft, --commit, --doc or --issue-token", errUsage)
	case o.doc != "" && o.force == (o.node != ""):
		return nil, fmt.Errorf("%w: --doc needs either --force or --node", errUsage)
	case (o.commit != "" || o.doc != "") && len(o.locales) == 0:
		return nil, fmt.Errorf("%w: --locales is required", errUsage)
	}
	return o, nil
}

func run(ctx context.Context, o *options, cfg *config.Config, stdout io.Writer) error {
	out := json.NewEncoder(stdout)
	out.SetIndent("", "  ")

	if o.issue != "" {
		tok, err := tokens.Issue(cfg.JWT.Secret, o.issue, o.issue, o.ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, tok)
		return err
	}

	a, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	svc := a.Service
	ctx = workflow.WithActor(ctx, o.actor)

	var res workflow.Result
	switch {
	case o.draft != "":
		c, err := svc.Commit(ctx, o.draft)
		if err != nil {
			return err
		}
		return out.Encode(c.Summary())
	case o.commit != "":
		res, err = svc.PropagateCommit(ctx, o.commit, o.locales)
	case o.node != "":
		res, err = svc.ForcePropagateNode(ctx, o.doc, o.node, o.locales)
	default:
		res, err = svc.ForcePropagate(ctx, o.doc, o.locales)
	}
	if err != nil {
		return err
	}
	if err := out.Encode(res); err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d locales failed", len(res.Failed), len(res.Failed)+len(res.Succeeded))
	}
	return nil
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	o, err := parse(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetFormat(cfg.Log.Format)
	if err := run(context.Background(), o, cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
