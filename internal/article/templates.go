package article

// Liquid fragments, rendered in this order by Compose. Operator text is
// bound as values, so it is never parsed as template syntax.

const ctaTemplate = `
<!-- ギフト診断CTA -->
<div style="background: linear-gradient(135deg, #fdf4f3 0%, #fce8e6 100%); border-radius: 12px; padding: 24px; margin: 32px 0; text-align: center; border: 1px solid #f4b4ae;">
  <p style="font-size: 18px; font-weight: bold; color: #aa372d; margin-bottom: 12px;">
    🎁 プレゼント選びに迷ったら...
  </p>
  <p style="color: #536076; margin-bottom: 16px;">
    3つの質問に答えるだけで、最適なギフトが見つかります
  </p>
  <a href="{{ diagnosis_url }}" target="_blank" rel="noopener" style="display: inline-block; background-color: #cb4539; color: white; padding: 12px 32px; border-radius: 9999px; text-decoration: none; font-weight: bold;">
    無料でギフト診断をする →
  </a>
</div>
`

const introTemplate = `
<p>この記事では、<strong>{{ title }}</strong>について、実際に贈った体験をもとにご紹介します。</p>

<p>「本当に喜んでもらえるプレゼントを選びたい」そんなあなたの参考になれば嬉しいです。</p>
`

const experienceTemplate = `
<h2>実際に贈ってみた体験談</h2>

<p>{{ experience }}</p>
`

const pointsTemplate = `
<h2>おすすめポイント</h2>

<ul>
{{ points | list_items }}
</ul>
`

const cautionsTemplate = `
<h2>購入前に知っておきたい注意点</h2>

<p>{{ cautions }}</p>
`

const summaryTemplate = `
<h2>まとめ</h2>

<p>今回は{{ title }}についてご紹介しました。</p>

<p>プレゼント選びは本当に悩みますよね。でも、相手のことを想って選んだプレゼントは、きっと喜んでもらえるはずです。</p>

<p>この記事が、あなたのプレゼント選びの参考になれば幸いです。</p>
`

const excerptTemplate = `{{ topic }}について、実際に贈った体験をもとにレビューします。`
