package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/akira0907/gift-diagnosis/internal/article"
	"github.com/akira0907/gift-diagnosis/internal/assist"
	"github.com/akira0907/gift-diagnosis/internal/interview"
	"github.com/akira0907/gift-diagnosis/internal/providers"
	"github.com/akira0907/gift-diagnosis/internal/wordpress"
)

func newWriteCmd(a *app) *cobra.Command {
	var (
		assistProvider string
		model          string
		outPath        string
		noPost         bool
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Interview yourself and compose a gift review article",
		Long: `Ask a few questions about a gift you gave, build the article HTML from
your answers and optionally post it to WordPress. Posts are always saved as
drafts.

With --assist, an LLM suggests the excerpt. The article body is never
generated.`,
		Example: `  giftctl write
  giftctl write --out article.html --no-post
  giftctl write --assist gemini`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			iv := interview.New(cmd.InOrStdin(), cmd.OutOrStdout())
			out := cmd.OutOrStdout()

			iv.Panel(
				"🎁 ギフト記事作成ツール",
				"",
				"このツールは、あなたの実体験をもとにブログ記事を作成します。",
				"※ 記事は必ず「下書き」として保存されます",
			)
			fmt.Fprintf(out, "\n診断アプリURL: %s\n", a.config.DiagnosisAppURL)

			outline, err := iv.Run()
			if errors.Is(err, interview.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}

			composer, err := article.NewComposer(a.config.DiagnosisAppURL)
			if err != nil {
				return err
			}
			post, err := composer.Compose(*outline)
			if err != nil {
				return err
			}

			if assistProvider != "" {
				suggestExcerpt(cmd, a, assistProvider, model, outline, post)
			}

			fmt.Fprintf(out, "\n記事プレビュー: %s\n", post.Title)
			fmt.Fprintf(out, "抜粋: %s\n", post.Excerpt)

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(post.Content), 0644); err != nil {
					return fmt.Errorf("failed to write article: %w", err)
				}
				fmt.Fprintf(out, "📝 HTMLを保存しました: %s\n", outPath)
			}

			if noPost {
				return nil
			}
			if err := a.config.RequireWordPress(); err != nil {
				fmt.Fprintln(out, "\nWordPress設定がないため、投稿はスキップしました")
				if outPath == "" {
					fmt.Fprintln(out, post.Content)
				}
				return nil
			}

			ok, err := iv.Confirm("WordPressに下書きとして投稿しますか？")
			if err != nil || !ok {
				return err
			}

			return postDraft(cmd, iv, a.config.WordPress, post)
		},
	}

	cmd.Flags().StringVar(&assistProvider, "assist", "", "Suggest the excerpt with an LLM (gemini, openai, ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model for --assist (defaults per provider)")
	cmd.Flags().StringVar(&outPath, "out", "", "Also write the article HTML to this file")
	cmd.Flags().BoolVar(&noPost, "no-post", false, "Do not post to WordPress")

	return cmd
}

// suggestExcerpt replaces post.Excerpt when the provider answers; failures keep the template excerpt
func suggestExcerpt(cmd *cobra.Command, a *app, provider, model string, outline *article.Outline, post *article.Article) {
	cfg := a.config.Assist
	cfg.Provider = provider
	if model == "" {
		model = cfg.Model
	}
	if model == "" {
		model = providers.DefaultModel(provider)
	}

	p, err := assist.NewProvider(cfg)
	if err != nil {
		slog.Warn("Excerpt assist unavailable", "provider", provider, "err", err)
		return
	}

	excerpt, err := assist.SuggestExcerpt(cmd.Context(), p, model, *outline)
	if err != nil {
		slog.Warn("Keeping template excerpt", "provider", provider, "model", model, "err", err)
		return
	}

	slog.Info("Using suggested excerpt", "provider", provider, "model", model)
	post.Excerpt = excerpt
	post.SEODescription = excerpt
}

func postDraft(cmd *cobra.Command, iv *interview.Interviewer, cfg wordpress.Config, post *article.Article) error {
	client := wordpress.NewClient(cfg)

	if _, err := client.TestConnection(cmd.Context()); err != nil {
		return fmt.Errorf("failed to connect to WordPress: %w", err)
	}

	result, err := client.CreateDraft(cmd.Context(), wordpress.Post{
		Title:   post.Title,
		Content: post.Content,
		Excerpt: post.Excerpt,
	})
	if err != nil {
		return err
	}

	iv.Panel(
		"✓ 下書き投稿が完了しました！",
		"",
		fmt.Sprintf("投稿ID: %d", result.PostID),
		fmt.Sprintf("編集URL: %s", result.EditURL),
	)
	return nil
}
