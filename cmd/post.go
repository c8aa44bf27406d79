package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/akira0907/gift-diagnosis/internal/wordpress"
)

type postOptions struct {
	test        bool
	list        bool
	title       string
	content     string
	contentFile string
	excerpt     string
	status      string
	update      int
	categories  []int
	tags        []int
}

func newPostCmd(a *app) *cobra.Command {
	opts := &postOptions{}

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create, update or list WordPress posts",
		Long: `Post articles to WordPress through the REST API.

New posts are always created as drafts; --status is only honoured together
with --update, which is the deliberate way to publish.`,
		Example: `  giftctl post --test
  giftctl post --title "タイトル" --content "<p>本文</p>"
  giftctl post --update 123 --title "新タイトル"
  giftctl post --update 123 --status publish
  giftctl post --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.config.RequireWordPress(); err != nil {
				return err
			}
			client := wordpress.NewClient(a.config.WordPress)

			switch {
			case opts.test:
				return runTestConnection(cmd, client, a.config.WordPress)
			case opts.list:
				return runListDrafts(cmd, client)
			case opts.update != 0:
				return runUpdatePost(cmd, client, opts)
			case opts.title != "":
				return runCreatePost(cmd, client, opts)
			default:
				return cmd.Help()
			}
		},
	}

	cmd.Flags().BoolVar(&opts.test, "test", false, "Test the WordPress connection")
	cmd.Flags().BoolVar(&opts.list, "list", false, "List draft posts")
	cmd.Flags().StringVar(&opts.title, "title", "", "Post title")
	cmd.Flags().StringVar(&opts.content, "content", "", "Post content (HTML)")
	cmd.Flags().StringVar(&opts.contentFile, "content-file", "", "Read post content from a file")
	cmd.Flags().StringVar(&opts.excerpt, "excerpt", "", "Post excerpt")
	cmd.Flags().StringVar(&opts.status, "status", "", "Post status for --update (draft, publish, private)")
	cmd.Flags().IntVar(&opts.update, "update", 0, "ID of the post to update")
	cmd.Flags().IntSliceVar(&opts.categories, "category", nil, "Category ID (repeatable)")
	cmd.Flags().IntSliceVar(&opts.tags, "tag", nil, "Tag ID (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("test", "list", "update")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")

	return cmd
}

func (o *postOptions) resolveContent() (string, error) {
	if o.contentFile == "" {
		return o.content, nil
	}
	data, err := os.ReadFile(o.contentFile)
	if err != nil {
		return "", fmt.Errorf("failed to read content file: %w", err)
	}
	return string(data), nil
}

func runTestConnection(cmd *cobra.Command, client *wordpress.Client, cfg wordpress.Config) error {
	user, err := client.TestConnection(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ 接続成功: %s (%s)\n", user.Name, cfg.SiteURL())
	return nil
}

func runListDrafts(cmd *cobra.Command, client *wordpress.Client) error {
	drafts, err := client.ListDrafts(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(drafts) == 0 {
		fmt.Fprintln(out, "下書きはありません")
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Title", "Edit URL"})
	for _, d := range drafts {
		t.AppendRow(table.Row{d.ID, d.Title, d.EditURL})
	}
	t.Render()
	return nil
}

func runCreatePost(cmd *cobra.Command, client *wordpress.Client, opts *postOptions) error {
	content, err := opts.resolveContent()
	if err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("--content or --content-file is required with --title")
	}
	if opts.status != "" && opts.status != wordpress.StatusDraft {
		slog.Warn("New posts are always created as drafts; use --update to change the status", "status", opts.status)
	}

	result, err := client.CreateDraft(cmd.Context(), wordpress.Post{
		Title:      opts.title,
		Content:    content,
		Excerpt:    opts.excerpt,
		Categories: opts.categories,
		Tags:       opts.tags,
	})
	if err != nil {
		return err
	}

	printPostResult(cmd, "✓ 投稿成功!", result)
	return nil
}

func runUpdatePost(cmd *cobra.Command, client *wordpress.Client, opts *postOptions) error {
	var update wordpress.PostUpdate
	flags := cmd.Flags()

	if flags.Changed("title") {
		update.Title = &opts.title
	}
	if flags.Changed("content") || flags.Changed("content-file") {
		content, err := opts.resolveContent()
		if err != nil {
			return err
		}
		update.Content = &content
	}
	if flags.Changed("excerpt") {
		update.Excerpt = &opts.excerpt
	}
	if flags.Changed("status") {
		update.Status = &opts.status
	}

	result, err := client.UpdatePost(cmd.Context(), opts.update, update)
	if err != nil {
		return err
	}

	printPostResult(cmd, "✓ 更新成功!", result)
	return nil
}

func printPostResult(cmd *cobra.Command, heading string, result *wordpress.PostResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, heading)
	fmt.Fprintf(out, "  投稿ID: %d\n", result.PostID)
	fmt.Fprintf(out, "  ステータス: %s\n", result.Status)
	fmt.Fprintf(out, "  編集URL: %s\n", result.EditURL)
}
