// Package interview asks the operator about a gift they gave and turns the
// answers into an article outline.
package interview

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/akira0907/gift-diagnosis/internal/article"
)

// ErrCancelled is returned when a required answer is empty or the operator
// declines the confirmation
var ErrCancelled = errors.New("interview cancelled")

const summaryExperienceRunes = 100

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

type question struct {
	heading string
	hints   []string
	label   string
	def     string
}

var questions = struct {
	topic, experience, points, cautions, title question
}{
	topic: question{
		heading: "【質問1】何についての記事を書きますか？",
		hints: []string{
			"例: 「母の日に贈ったハンドクリームが喜ばれた話」",
			"例: 「彼女の誕生日プレゼント選びで失敗した経験」",
		},
		label: "トピック",
	},
	experience: question{
		heading: "【質問2】そのプレゼントにまつわる実体験を教えてください",
		hints: []string{
			"・いつ、誰に贈りましたか？",
			"・なぜそれを選びましたか？",
			"・相手の反応はどうでしたか？",
			"・他に検討した選択肢はありましたか？",
			"（できるだけ具体的に。エピソードがあると読者に刺さります）",
		},
		label: "あなたの体験",
	},
	points: question{
		heading: "【質問3】このプレゼントの良かった点を3つ教えてください",
		hints:   []string{"例: 「パッケージが可愛い」「香りが上品」「値段が手頃」"},
		label:   "良かった点（カンマ区切り）",
	},
	cautions: question{
		heading: "【質問4】注意点やデメリットはありますか？",
		hints:   []string{"正直に書くと信頼性が上がります"},
		label:   "注意点",
		def:     article.NoCautions,
	},
	title: question{
		heading: "【質問5】記事のタイトル案を教えてください",
		hints: []string{
			"SEOを意識して、検索されそうなキーワードを含めてください",
			"例: 「【母の日】50代の母が本当に喜んだプレゼント5選｜実体験レビュー」",
		},
		label: "タイトル",
	},
}

// Interviewer runs the question flow over a reader/writer pair
type Interviewer struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates an interviewer reading answers from in
func New(in io.Reader, out io.Writer) *Interviewer {
	return &Interviewer{in: bufio.NewReader(in), out: out}
}

// Run asks the five questions, shows a summary and asks for confirmation
func (iv *Interviewer) Run() (*article.Outline, error) {
	iv.Panel(
		"📝 記事作成インタビュー",
		"",
		"これから、あなたの体験をもとに記事を作成します。",
		"AIが勝手に書くのではなく、あなたの実体験と熱量を",
		"引き出すための質問をいくつかさせてください。",
	)

	topic, err := iv.ask(questions.topic)
	if err != nil {
		return nil, err
	}
	if topic == "" {
		return nil, iv.cancel()
	}

	experience, err := iv.ask(questions.experience)
	if err != nil {
		return nil, err
	}
	if experience == "" {
		return nil, iv.cancel()
	}

	points, err := iv.ask(questions.points)
	if err != nil {
		return nil, err
	}
	cautions, err := iv.ask(questions.cautions)
	if err != nil {
		return nil, err
	}
	title, err := iv.ask(questions.title)
	if err != nil {
		return nil, err
	}

	outline := &article.Outline{
		Title:      title,
		Topic:      topic,
		Experience: experience,
		GoodPoints: points,
		Cautions:   cautions,
	}
	iv.summarize(outline)

	ok, err := iv.Confirm("この内容で記事を作成しますか？")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, iv.cancel()
	}
	return outline, nil
}

// Panel prints a bordered box; the first line is the heading
func (iv *Interviewer) Panel(heading string, lines ...string) {
	body := append([]string{questionStyle.Render(heading)}, lines...)
	fmt.Fprintln(iv.out, panelStyle.Render(strings.Join(body, "\n")))
}

func (iv *Interviewer) ask(q question) (string, error) {
	fmt.Fprintln(iv.out)
	fmt.Fprintln(iv.out, questionStyle.Render(q.heading))
	for _, h := range q.hints {
		fmt.Fprintln(iv.out, hintStyle.Render(h))
	}

	prompt := q.label
	if q.def != "" {
		prompt += fmt.Sprintf(" (%s)", q.def)
	}
	fmt.Fprintf(iv.out, "\n%s: ", prompt)

	answer, err := iv.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return q.def, nil
	}
	return answer, nil
}

// Confirm asks a y/N question; anything but y or yes is a no
func (iv *Interviewer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(iv.out, "\n%s [y/N]: ", prompt)
	answer, err := iv.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// readLine treats EOF as the end of the answer
func (iv *Interviewer) readLine() (string, error) {
	line, err := iv.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (iv *Interviewer) summarize(o *article.Outline) {
	experience := o.Experience
	if runes := []rune(experience); len(runes) > summaryExperienceRunes {
		experience = string(runes[:summaryExperienceRunes]) + "..."
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(iv.out)
	fmt.Fprintln(iv.out, rule)
	fmt.Fprintln(iv.out, questionStyle.Render("入力内容の確認"))
	fmt.Fprintf(iv.out, "タイトル: %s\n", o.Title)
	fmt.Fprintf(iv.out, "トピック: %s\n", o.Topic)
	fmt.Fprintf(iv.out, "体験談: %s\n", experience)
	fmt.Fprintf(iv.out, "良い点: %s\n", o.GoodPoints)
	fmt.Fprintf(iv.out, "注意点: %s\n", o.Cautions)
	fmt.Fprintln(iv.out, rule)
}

func (iv *Interviewer) cancel() error {
	fmt.Fprintln(iv.out, warnStyle.Render("キャンセルしました"))
	return ErrCancelled
}
