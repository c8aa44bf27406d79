package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/akira0907/gift-diagnosis/internal/catalog"
	"github.com/akira0907/gift-diagnosis/internal/gitsync"
	"github.com/akira0907/gift-diagnosis/internal/osutil"
	"github.com/akira0907/gift-diagnosis/internal/products"
)

const listNameRunes = 50

func newProductCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the CSV product catalog",
		Long: `Manage data/products.csv and the JSON document generated from it.

The CSV is the editable source of truth; "sync" regenerates the JSON read by
the web app and "push" publishes both through git.`,
	}

	cmd.AddCommand(newProductAddURLCmd(a))
	cmd.AddCommand(newProductFillCmd(a))
	cmd.AddCommand(newProductListCmd(a))
	cmd.AddCommand(newProductSyncCmd(a))
	cmd.AddCommand(newProductImportCmd(a))
	cmd.AddCommand(newProductPushCmd(a))
	cmd.AddCommand(newProductOpenCmd(a))
	cmd.AddCommand(newProductExportCmd(a))

	return cmd
}

func (a *app) products() *products.Manager {
	return products.NewManager(a.config.Paths.CSV, a.config.Paths.JSON)
}

func newProductAddURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add-url <url>",
		Short:   "Add a product scraped from a shop page",
		Example: `  giftctl product add-url "https://www.amazon.co.jp/dp/B0XXXXXXX"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "🔍 商品情報を取得中: %s\n", args[0])

			record, err := a.products().AddFromURL(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, products.ErrNoProductInfo) {
					fmt.Fprintln(out, "❌ 商品情報を取得できませんでした")
				}
				return err
			}

			fmt.Fprintf(out, "✅ 商品名: %s\n", record.Name)
			fmt.Fprintf(out, "✅ 価格: ¥%s\n", formatYen(record.Price))
			fmt.Fprintf(out, "🤖 カテゴリ: %s\n", record.Category)
			fmt.Fprintf(out, "🤖 予算帯: %s\n", record.BudgetRange)
			fmt.Fprintf(out, "✅ 商品を追加しました: %s\n", record.ID)
			fmt.Fprintln(out, "\n💡 次のステップ:")
			fmt.Fprintln(out, "   1. giftctl product open  # CSVを開いて内容を確認・編集")
			fmt.Fprintln(out, "   2. giftctl product push  # GitHubにプッシュ")
			return nil
		},
	}
}

func newProductFillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill",
		Short: "Fill rows that have a productUrl but no name",
		Long: `Fetch the page of every CSV row whose productUrl column is set and whose
name is blank, then fill the blank cells from the page and the classifier.
Rows without a productUrl column are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.products().Fill(cmd.Context())
			out := cmd.OutOrStdout()
			filled := 0
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(out, "❌ %s: 商品情報を取得できませんでした\n", r.URL)
					continue
				}
				filled++
				fmt.Fprintf(out, "✅ %s: %s\n", r.ID, r.Name)
			}
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(out, "補完が必要な行はありません")
				return nil
			}
			fmt.Fprintf(out, "\n%d件の商品情報を補完しました\n", filled)
			return nil
		},
	}
}

func newProductListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products in the CSV catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.products().List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "商品データがありません")
				return nil
			}

			fmt.Fprintf(out, "\n📦 商品一覧 (%d件)\n\n", len(rows))
			t := newTable(out)
			t.AppendHeader(table.Row{"ID", "Name", "Price", "Category", "Published"})
			for _, row := range rows {
				t.AppendRow(table.Row{
					row["id"],
					truncateRunes(row["name"], listNameRunes),
					"¥" + row["price"],
					row["category"],
					row["isPublished"],
				})
			}
			t.Render()
			return nil
		},
	}
}

func newProductSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Regenerate the JSON document from the CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.products().Sync()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ JSONファイルを生成しました: %s (%d件)\n", a.config.Paths.JSON, len(doc.Products))
			return nil
		},
	}
}

func newProductImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Regenerate the CSV from the JSON document",
		Long: `Rebuild data/products.csv from src/data/products.json.

Use this once to migrate an existing JSON catalog into the CSV workflow.
The CSV is overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.products().Import()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ CSVファイルを生成しました: %s (%d件)\n", a.config.Paths.CSV, len(t.Rows))
			return nil
		},
	}
}

func newProductPushCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Sync the JSON, then git add, commit and push both files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			csvPath, csvSpec, err := repoPath(dir, a.config.Paths.CSV)
			if err != nil {
				return err
			}
			jsonPath, jsonSpec, err := repoPath(dir, a.config.Paths.JSON)
			if err != nil {
				return err
			}
			m := products.NewManager(csvPath, jsonPath)

			fmt.Fprintln(out, "🔄 JSONファイルを生成中...")
			if _, err := m.Sync(); err != nil {
				return err
			}

			fmt.Fprintln(out, "\n📤 GitHubにプッシュ中...")
			if err := gitsync.New(dir).Push(cmd.Context(), m.CommitMessage(), csvSpec, jsonSpec); err != nil {
				return err
			}

			fmt.Fprintln(out, "\n✅ GitHubへのプッシュが完了しました!")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "repo", ".", "Git repository root; relative catalog paths are resolved against it")

	return cmd
}

// repoPath resolves a configured catalog path for a push from repo. It
// returns the file's location on disk and the pathspec git uses inside repo.
func repoPath(repo, path string) (string, string, error) {
	if !filepath.IsAbs(path) {
		return filepath.Join(repo, path), path, nil
	}

	root, err := filepath.Abs(repo)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve repository %s: %w", repo, err)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path, path, nil
	}
	return path, rel, nil
}

func newProductOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the CSV in the default application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.config.Paths.CSV
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("%w: %s", catalog.ErrNotFound, path)
			}
			if err := osutil.OpenFile(cmd.Context(), path); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📝 CSVファイルを開きました: %s\n", path)
			fmt.Fprintln(out, "\n💡 編集後は以下を実行してください:")
			fmt.Fprintln(out, "   giftctl product push")
			return nil
		},
	}
}

func newProductExportCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:     "export-parquet",
		Short:   "Write a Parquet snapshot of the catalog",
		Example: `  giftctl product export-parquet --out products.parquet`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.products().ExportParquet(outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %d件を書き出しました: %s\n", n, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "products.parquet", "Output Parquet file")

	return cmd
}

var yenPrinter = message.NewPrinter(language.Japanese)

// formatYen renders n with thousands separators
func formatYen(n int) string {
	return yenPrinter.Sprintf("%d", n)
}

func truncateRunes(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}
